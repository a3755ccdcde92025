package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResume_Valid(t *testing.T) {
	doc := `{
		"skills": ["Go", "PostgreSQL"],
		"education": [{"institution": "MIT", "degree": "B.S.", "field": "Computer Science", "start_date": "2012", "end_date": "2016"}],
		"experiences": [{"employer": "Acme", "title": "Engineer", "start_date": "2016", "end_date": "Present", "description": "Built things"}]
	}`
	assert.NoError(t, ValidateResume(doc))
	assert.NoError(t, ValidateResume(`{"skills": [], "education": [], "experiences": []}`))
}

func TestValidateResume_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		want string
	}{
		{name: "missing experiences", doc: `{"skills": [], "education": []}`, want: "experiences"},
		{name: "skills not strings", doc: `{"skills": [1], "education": [], "experiences": []}`, want: "skills.0"},
		{name: "unknown key", doc: `{"skills": [], "education": [], "experiences": [], "hobbies": []}`, want: "hobbies"},
		{name: "education entry extra key", doc: `{"skills": [], "education": [{"school": "x"}], "experiences": []}`, want: "school"},
		{name: "empty skill", doc: `{"skills": [""], "education": [], "experiences": []}`, want: "skills.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResume(tt.doc)
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %T", err)
			require.NotEmpty(t, ve.Errors)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateResume_Malformed(t *testing.T) {
	err := ValidateResume(`{"skills": [`)
	require.Error(t, err)

	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "Ada"}`))
	assert.Error(t, ValidateJSONString(schema, `{"name": 3}`))

	var le *SchemaLoadError
	assert.True(t, errors.As(ValidateJSONString(`{"type": 12}`, `{}`), &le))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "skills", Message: "Invalid type"}}}
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "1. skills: Invalid type")
}
