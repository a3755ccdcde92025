package parsing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelink/portfolio-api/internal/llm"
	"github.com/onelink/portfolio-api/internal/logging"
	"github.com/onelink/portfolio-api/internal/types"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
	deadline bool
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	_, f.deadline = ctx.Deadline()
	return f.response, f.err
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                  { return nil }

func TestModelExtractor_Success(t *testing.T) {
	client := &fakeLLM{response: "```json\n" + `{
		"skills": ["golang", "Go", "postgres"],
		"education": [{"institution": "State University", "degree": "B.S.", "field": "CS", "start_date": "2012", "end_date": "2016"}],
		"experiences": []
	}` + "\n```"}
	m := NewModelExtractor(client, llm.TierLite, time.Minute, logging.Discard())

	data := m.Extract(context.Background(), "Jane Doe, Go engineer")

	assert.Equal(t, []string{"Go", "PostgreSQL"}, data.Skills)
	require.Len(t, data.Education, 1)
	assert.Equal(t, "State University", data.Education[0].Institution)
	assert.NotNil(t, data.Experiences)
	assert.Empty(t, data.Experiences)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Jane Doe, Go engineer")
	assert.NotContains(t, client.prompts[0], "{{.ResumeText}}")
	assert.True(t, client.deadline, "timeout should be applied")
}

func TestModelExtractor_DegradesToEmpty(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeLLM
	}{
		{name: "api error", client: &fakeLLM{err: errors.New("quota exceeded")}},
		{name: "not json", client: &fakeLLM{response: "I could not read that résumé."}},
		{name: "schema mismatch", client: &fakeLLM{response: `{"skills": "Go"}`}},
		{name: "unknown keys", client: &fakeLLM{response: `{"skills": [], "education": [], "experiences": [], "name": "Jane"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModelExtractor(tt.client, llm.TierLite, 0, logging.Discard())
			data := m.Extract(context.Background(), "some résumé text")
			assert.Equal(t, types.NewStructuredResumeData(), data)
		})
	}
}

func TestModelExtractor_ErrorTypes(t *testing.T) {
	m := NewModelExtractor(&fakeLLM{err: errors.New("boom")}, llm.TierLite, 0, logging.Discard())
	_, err := m.extract(context.Background(), "text")
	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, StageModel, exErr.Stage)

	m = NewModelExtractor(&fakeLLM{response: `{"skills": 1}`}, llm.TierLite, 0, logging.Discard())
	_, err = m.extract(context.Background(), "text")
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, StageSchema, exErr.Stage)

	m = NewModelExtractor(&fakeLLM{response: `{"skills": [`}, llm.TierLite, 0, logging.Discard())
	_, err = m.extract(context.Background(), "text")
	require.ErrorAs(t, err, &exErr)
	assert.NotEqual(t, StageModel, exErr.Stage)
}

func TestModelExtractor_EmptyTextSkipsModel(t *testing.T) {
	client := &fakeLLM{response: `{"skills": ["Go"], "education": [], "experiences": []}`}
	m := NewModelExtractor(client, llm.TierLite, 0, logging.Discard())

	data := m.Extract(context.Background(), "  \n ")

	assert.True(t, data.IsEmpty())
	assert.Empty(t, client.prompts)
}

func TestModelExtractor_TruncatesPrompt(t *testing.T) {
	client := &fakeLLM{response: `{"skills": [], "education": [], "experiences": []}`}
	m := NewModelExtractor(client, llm.TierLite, 0, logging.Discard())

	m.Extract(context.Background(), strings.Repeat("é", maxPromptRunes+500))

	require.Len(t, client.prompts, 1)
	assert.Equal(t, maxPromptRunes+countTemplateAccents(t), strings.Count(client.prompts[0], "é"))
}

func countTemplateAccents(t *testing.T) int {
	t.Helper()
	client := &fakeLLM{response: `{"skills": [], "education": [], "experiences": []}`}
	NewModelExtractor(client, llm.TierLite, 0, logging.Discard()).Extract(context.Background(), "x")
	return strings.Count(client.prompts[0], "é")
}

func TestExtractionError(t *testing.T) {
	cause := errors.New("root")
	err := &ExtractionError{Stage: StageDecode, Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "resume extraction failed at decode stage: root", err.Error())
	assert.Equal(t, "resume extraction failed at schema stage", (&ExtractionError{Stage: StageSchema}).Error())
}
