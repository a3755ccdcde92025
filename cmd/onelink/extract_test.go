package main

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelink/portfolio-api/internal/testdocs"
	"github.com/onelink/portfolio-api/internal/textextract"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	extractStrategy = "keyword"
	extractMediaType = ""
	extractAPIKey = ""
	extractVerbose = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestExtractCommand_DOCX(t *testing.T) {
	path := testdocs.WriteFile(t, "cv.docx", testdocs.DOCX("Jane Doe", "Skills", "Python, Docker"))

	out, err := runCLI(t, "extract", path)
	require.NoError(t, err)

	var res extractResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "cv.docx", res.File)
	assert.Equal(t, textextract.MediaTypeDOCX, res.MediaType)
	assert.Equal(t, "Jane Doe\nSkills\nPython, Docker", res.Text)
	assert.Contains(t, res.Structured.Skills, "Python")
	assert.NotNil(t, res.Structured.Education)
}

func TestExtractCommand_NoneStrategy(t *testing.T) {
	path := testdocs.WriteFile(t, "cv.docx", testdocs.DOCX("Python"))

	out, err := runCLI(t, "extract", "--strategy", "none", path)
	require.NoError(t, err)

	var res extractResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Empty(t, res.Structured.Skills)
	assert.Contains(t, out, `"skills": []`)
}

func TestExtractCommand_Verbose(t *testing.T) {
	path := testdocs.WriteFile(t, "cv.docx", testdocs.DOCX("Jane Doe", "Python"))

	out, err := runCLI(t, "extract", "--verbose", path)
	require.NoError(t, err)
	assert.Contains(t, out, "EXTRACTED TEXT")
	assert.Contains(t, out, "STRUCTURED RESUME")
}

func TestExtractCommand_Errors(t *testing.T) {
	txt := testdocs.WriteFile(t, "notes.txt", []byte("hello"))
	docx := testdocs.WriteFile(t, "cv.docx", testdocs.DOCX("x"))

	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{"missing file argument", []string{"extract"}, "accepts 1 arg"},
		{"file does not exist", []string{"extract", "/nonexistent/cv.pdf"}, "failed to read input file"},
		{"unsupported extension", []string{"extract", txt}, "only PDF and DOCX"},
		{"unknown strategy", []string{"extract", "--strategy", "magic", docx}, "unknown extraction strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestExtractCommand_GeminiRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := testdocs.WriteFile(t, "cv.docx", testdocs.DOCX("x"))

	_, err := runCLI(t, "extract", "--strategy", "gemini", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestResolveMediaType(t *testing.T) {
	assert.Equal(t, textextract.MediaTypePDF, resolveMediaType("", "cv.PDF"))
	assert.Equal(t, textextract.MediaTypeDOCX, resolveMediaType("docx", "cv.bin"))
	assert.Equal(t, textextract.MediaTypePDF, resolveMediaType("Application/PDF; charset=binary", "cv"))
	assert.Equal(t, "", resolveMediaType("", "cv.txt"))
}

func TestServeCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STRUCTURED_EXTRACTOR", "none")
	servePort = 0

	_, err := runCLI(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestMigrateCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := runCLI(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
