package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/onelink/portfolio-api/internal/types"
)

func TestPrintExtractedText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	text := strings.Repeat("line\n", 11) + "last"
	p.PrintExtractedText("cv.pdf", "application/pdf", text)
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED TEXT")
	assert.Contains(t, output, "cv.pdf")
	assert.Contains(t, output, "Lines:      12")
	assert.Contains(t, output, "... and 4 more lines")
}

func TestPrintExtractedText_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintExtractedText("broken.docx", "docx", "")

	assert.Contains(t, buf.String(), "(no text extracted)")
}

func TestPrintStructured(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	data := types.NewStructuredResumeData()
	data.Skills = []string{"Go", "Python", "Docker", "SQL", "AWS", "Kubernetes", "React"}
	data.Education = []types.EducationEntry{
		{Institution: "State University", Degree: "BSc", StartDate: "2012", EndDate: "2016"},
	}
	data.Experiences = []types.ExperienceEntry{
		{Employer: "Acme Corp", Title: "Engineer", StartDate: "2016"},
	}

	p.PrintStructured(data)
	output := buf.String()

	assert.Contains(t, output, "STRUCTURED RESUME")
	assert.Contains(t, output, "Skills (7):")
	assert.Contains(t, output, "... and 2 more")
	assert.Contains(t, output, "BSc, State University (2012 - 2016)")
	assert.Contains(t, output, "Engineer @ Acme Corp (2016 -)")
}

func TestPrintStructured_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStructured(types.NewStructuredResumeData())

	assert.Contains(t, buf.String(), "Skills (0):")
	assert.Contains(t, buf.String(), "Experience (0):")
}

func TestFitLine(t *testing.T) {
	assert.Equal(t, "ab  ", fitLine("ab", 4))
	long := fitLine(strings.Repeat("é", 80), 10)
	assert.Equal(t, 10, utf8.RuneCountInString(long))
	assert.True(t, strings.HasSuffix(long, "..."))
}
