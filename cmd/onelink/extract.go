package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onelink/portfolio-api/internal/logging"
	"github.com/onelink/portfolio-api/internal/observability"
	"github.com/onelink/portfolio-api/internal/parsing"
	"github.com/onelink/portfolio-api/internal/textextract"
	"github.com/onelink/portfolio-api/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract text and structured data from a résumé file",
	Long: `Run text extraction and structured extraction on a local PDF or DOCX file
and print the result as JSON. Nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var (
	extractStrategy  string
	extractMediaType string
	extractAPIKey    string
	extractVerbose   bool
)

func init() {
	extractCmd.Flags().StringVar(&extractStrategy, "strategy", "keyword", "Structured extraction strategy: none, keyword or gemini")
	extractCmd.Flags().StringVar(&extractMediaType, "type", "", "Media type (inferred from the file extension when empty)")
	extractCmd.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print a human-readable summary instead of JSON")

	rootCmd.AddCommand(extractCmd)
}

// extractResult is the JSON printed by the extract command.
type extractResult struct {
	File       string                     `json:"file"`
	MediaType  string                     `json:"media_type"`
	Text       string                     `json:"text"`
	Structured types.StructuredResumeData `json:"structured"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	mediaType := resolveMediaType(extractMediaType, path)
	if !textextract.Supported(mediaType) {
		return fmt.Errorf("unsupported file type for %s: only PDF and DOCX files are supported", filepath.Base(path))
	}

	apiKey := extractAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if extractStrategy == "gemini" && apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	// Logs go to stderr so stdout stays valid JSON.
	logger := logging.New(cmd.ErrOrStderr(), os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	ctx := cmd.Context()
	text, err := textextract.New(logger).Read(ctx, path, mediaType)
	if err != nil {
		logger.Warn("text extraction failed", "file", path, "error", err)
		text = ""
	}

	extractor, closeExtractor, err := parsing.New(ctx, parsing.Options{
		Strategy: extractStrategy,
		APIKey:   apiKey,
		Tier:     os.Getenv("GEMINI_MODEL_TIER"),
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create structured extractor: %w", err)
	}
	defer func() { _ = closeExtractor() }()

	data := extractor.Extract(ctx, text).Normalize()

	out := cmd.OutOrStdout()
	if extractVerbose {
		p := observability.NewPrinter(out)
		p.PrintExtractedText(filepath.Base(path), textextract.Label(mediaType), text)
		p.PrintStructured(data)
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(extractResult{
		File:       filepath.Base(path),
		MediaType:  mediaType,
		Text:       text,
		Structured: data,
	})
}

// resolveMediaType accepts a full media type or the short names pdf and docx.
func resolveMediaType(flag, path string) string {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "":
		return textextract.MediaTypeForPath(path)
	case "pdf":
		return textextract.MediaTypePDF
	case "docx":
		return textextract.MediaTypeDOCX
	}
	return textextract.NormalizeMediaType(flag)
}
