package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredResumeData_EmptySerializesAsArrays(t *testing.T) {
	data, err := json.Marshal(NewStructuredResumeData())
	require.NoError(t, err)
	assert.JSONEq(t, `{"skills":[],"education":[],"experiences":[]}`, string(data))
}

func TestStructuredResumeData_Normalize(t *testing.T) {
	var zero StructuredResumeData
	assert.True(t, zero.IsEmpty())

	n := zero.Normalize()
	assert.NotNil(t, n.Skills)
	assert.NotNil(t, n.Education)
	assert.NotNil(t, n.Experiences)

	kept := StructuredResumeData{Skills: []string{"Go"}}.Normalize()
	assert.Equal(t, []string{"Go"}, kept.Skills)
	assert.False(t, kept.IsEmpty())
}

func TestUploadResponse_JSONShape(t *testing.T) {
	resp := UploadResponse{
		Message: "Resume cv.pdf uploaded successfully",
		ParsedData: ParsedData{
			Experiences: []ExperienceEntry{},
			Education:   []EducationEntry{},
			Skills:      []string{},
			RawText:     "hello",
		},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"message": "Resume cv.pdf uploaded successfully",
		"parsed_data": {"experiences": [], "education": [], "skills": [], "raw_text": "hello"}
	}`, string(data))
}
