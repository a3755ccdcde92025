package parsing

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/onelink/portfolio-api/internal/llm"
	"github.com/onelink/portfolio-api/internal/logging"
	"github.com/onelink/portfolio-api/internal/prompts"
	"github.com/onelink/portfolio-api/internal/schemas"
	"github.com/onelink/portfolio-api/internal/types"
)

// maxPromptRunes bounds the résumé text sent to the model.
const maxPromptRunes = 30000

// ModelExtractor asks a generative model for the structured record and
// validates the answer against the résumé schema.
type ModelExtractor struct {
	client  llm.Client
	tier    llm.ModelTier
	timeout time.Duration
	logger  *slog.Logger
}

// NewModelExtractor creates a ModelExtractor. A zero timeout means none.
func NewModelExtractor(client llm.Client, tier llm.ModelTier, timeout time.Duration, logger *slog.Logger) *ModelExtractor {
	if logger == nil {
		logger = logging.Component("parsing")
	}
	return &ModelExtractor{client: client, tier: tier, timeout: timeout, logger: logger}
}

// Extract implements Extractor. Failures are logged and yield the empty record.
func (m *ModelExtractor) Extract(ctx context.Context, text string) types.StructuredResumeData {
	if strings.TrimSpace(text) == "" {
		return types.NewStructuredResumeData()
	}

	data, err := m.extract(ctx, text)
	if err != nil {
		m.logger.Warn("structured extraction failed, returning empty result",
			"model", m.client.GetModel(m.tier),
			"error", err)
		return types.NewStructuredResumeData()
	}
	return data
}

func (m *ModelExtractor) extract(ctx context.Context, text string) (types.StructuredResumeData, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	template, err := prompts.Get("resume.json", "extract-resume")
	if err != nil {
		return types.StructuredResumeData{}, err
	}
	prompt := prompts.Format(template, map[string]string{"ResumeText": truncateRunes(text, maxPromptRunes)})

	response, err := m.client.GenerateJSON(ctx, prompt, m.tier)
	if err != nil {
		return types.StructuredResumeData{}, stageErr(StageModel, err)
	}
	response = llm.CleanJSONBlock(response)

	if err := schemas.ValidateResume(response); err != nil {
		return types.StructuredResumeData{}, stageErr(StageSchema, err)
	}

	var data types.StructuredResumeData
	if err := json.Unmarshal([]byte(response), &data); err != nil {
		return types.StructuredResumeData{}, stageErr(StageDecode, err)
	}

	data.Skills = NormalizeSkills(data.Skills)
	return data.Normalize(), nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
