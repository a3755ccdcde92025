// Package textextract turns uploaded PDF and DOCX documents into plain text.
//
// Extract never fails: any read or parse error is logged, counted, and
// reported to the caller as an empty string. Read exposes the underlying
// error for tooling that wants it.
package textextract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/onelink/portfolio-api/internal/logging"
	"github.com/onelink/portfolio-api/internal/metrics"
)

// Supported media types.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedFormat is returned by Read for media types with no reader.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// NormalizeMediaType lowercases a declared Content-Type and drops parameters
// such as charset.
func NormalizeMediaType(raw string) string {
	raw = strings.TrimSpace(raw)
	if mt, _, err := mime.ParseMediaType(raw); err == nil {
		return mt
	}
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// Supported reports whether mediaType has a reader.
func Supported(mediaType string) bool {
	switch NormalizeMediaType(mediaType) {
	case MediaTypePDF, MediaTypeDOCX:
		return true
	}
	return false
}

// Suffix returns the file extension for a supported media type, or "".
func Suffix(mediaType string) string {
	switch NormalizeMediaType(mediaType) {
	case MediaTypePDF:
		return ".pdf"
	case MediaTypeDOCX:
		return ".docx"
	}
	return ""
}

// MediaTypeForPath infers a supported media type from a file extension.
func MediaTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return MediaTypePDF
	case ".docx":
		return MediaTypeDOCX
	}
	return ""
}

// Label returns a short metric/log label for a media type.
func Label(mediaType string) string {
	switch NormalizeMediaType(mediaType) {
	case MediaTypePDF:
		return "pdf"
	case MediaTypeDOCX:
		return "docx"
	}
	return "other"
}

// Extractor reads documents from disk. It holds no mutable state and may be
// shared between goroutines.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor. A nil logger uses the default component logger.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.Component("textextract")
	}
	return &Extractor{logger: logger}
}

// Extract returns the plain text of the file at path. Failures degrade to "".
func (e *Extractor) Extract(ctx context.Context, path, mediaType string) string {
	text, err := e.Read(ctx, path, mediaType)
	if err != nil {
		e.logger.Warn("text extraction failed, continuing with empty text",
			"media_type", Label(mediaType),
			"path", filepath.Base(path),
			"error", err)
		metrics.RecordExtractionFailure(Label(mediaType))
		return ""
	}
	return text
}

// Read returns the plain text of the file at path or the error that
// prevented it.
func (e *Extractor) Read(ctx context.Context, path, mediaType string) (string, error) {
	switch NormalizeMediaType(mediaType) {
	case MediaTypeDOCX:
		return readDOCX(path)
	case MediaTypePDF:
		return readPDF(ctx, path)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, mediaType)
	}
}
