package textextract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onelink/portfolio-api/internal/logging"
)

func TestNormalizeMediaType(t *testing.T) {
	assert.Equal(t, MediaTypePDF, NormalizeMediaType("Application/PDF"))
	assert.Equal(t, MediaTypePDF, NormalizeMediaType("application/pdf; charset=binary"))
	assert.Equal(t, MediaTypeDOCX, NormalizeMediaType("  "+MediaTypeDOCX+"  "))
	assert.Equal(t, "", NormalizeMediaType(""))
}

func TestSupportedAndSuffix(t *testing.T) {
	tests := []struct {
		mediaType string
		supported bool
		suffix    string
		label     string
	}{
		{MediaTypePDF, true, ".pdf", "pdf"},
		{MediaTypeDOCX, true, ".docx", "docx"},
		{"application/msword", false, "", "other"},
		{"text/plain", false, "", "other"},
		{"image/png", false, "", "other"},
		{"", false, "", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			assert.Equal(t, tt.supported, Supported(tt.mediaType))
			assert.Equal(t, tt.suffix, Suffix(tt.mediaType))
			assert.Equal(t, tt.label, Label(tt.mediaType))
		})
	}
}

func TestMediaTypeForPath(t *testing.T) {
	assert.Equal(t, MediaTypePDF, MediaTypeForPath("/tmp/CV.PDF"))
	assert.Equal(t, MediaTypeDOCX, MediaTypeForPath("resume.docx"))
	assert.Equal(t, "", MediaTypeForPath("resume.doc"))
}

func TestRead_UnsupportedFormat(t *testing.T) {
	e := New(logging.Discard())
	_, err := e.Read(context.Background(), "cv.txt", "text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, "", e.Extract(context.Background(), "cv.txt", "text/plain"))
}

func TestNew_NilLogger(t *testing.T) {
	assert.NotNil(t, New(nil).logger)
}
