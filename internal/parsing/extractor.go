// Package parsing derives structured résumé data (skills, education,
// experience) from extracted plain text.
package parsing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/onelink/portfolio-api/internal/llm"
	"github.com/onelink/portfolio-api/internal/types"
)

// Extractor turns raw résumé text into a StructuredResumeData. Implementations
// never fail: anything they cannot recover is left as an empty sequence.
type Extractor interface {
	Extract(ctx context.Context, text string) types.StructuredResumeData
}

// NoneExtractor returns three empty sequences for any input.
type NoneExtractor struct{}

// Extract implements Extractor.
func (NoneExtractor) Extract(context.Context, string) types.StructuredResumeData {
	return types.NewStructuredResumeData()
}

// Options selects and configures an extraction strategy.
type Options struct {
	Strategy string // "none", "keyword" or "gemini"
	APIKey   string
	Tier     string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// New builds the Extractor for opts.Strategy. The returned close function
// releases any client the strategy holds and is never nil.
func New(ctx context.Context, opts Options) (Extractor, func() error, error) {
	noop := func() error { return nil }

	switch opts.Strategy {
	case "", "none":
		return NoneExtractor{}, noop, nil
	case "keyword":
		return NewKeywordExtractor(), noop, nil
	case "gemini":
		tier, err := llm.ParseTier(opts.Tier)
		if err != nil {
			return nil, noop, err
		}
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), opts.APIKey)
		if err != nil {
			return nil, noop, stageErr(StageModel, fmt.Errorf("create LLM client: %w", err))
		}
		return NewModelExtractor(client, tier, opts.Timeout, opts.Logger), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown extraction strategy %q", opts.Strategy)
	}
}
