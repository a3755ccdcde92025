package parsing

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoneExtractor_AlwaysEmpty(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Jane Doe\nSkills\nGo, Python\nEducation\nB.S. in CS, State University, 2012 - 2016",
		string(make([]byte, 10000)),
	}

	for _, input := range inputs {
		data := NoneExtractor{}.Extract(context.Background(), input)

		encoded, err := json.Marshal(data)
		require.NoError(t, err)
		assert.JSONEq(t, `{"skills":[],"education":[],"experiences":[]}`, string(encoded))
	}
}

func TestNew_Strategies(t *testing.T) {
	ctx := context.Background()

	ex, closeFn, err := New(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, NoneExtractor{}, ex)
	assert.NoError(t, closeFn())

	ex, closeFn, err = New(ctx, Options{Strategy: "keyword"})
	require.NoError(t, err)
	assert.IsType(t, &KeywordExtractor{}, ex)
	assert.NoError(t, closeFn())
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	_, closeFn, err := New(ctx, Options{Strategy: "spacy"})
	assert.Error(t, err)
	assert.NotNil(t, closeFn)

	_, _, err = New(ctx, Options{Strategy: "gemini", Tier: "ultra", APIKey: "k"})
	assert.Error(t, err)

	_, _, err = New(ctx, Options{Strategy: "gemini"})
	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, StageModel, exErr.Stage)
}
