// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/onelink/portfolio-api/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewLines is how many lines of extracted text are shown
	previewLines = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", fitLine(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// fitLine truncates or pads line to exactly width runes.
func fitLine(line string, width int) string {
	n := utf8.RuneCountInString(line)
	if n > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-n)
}

// PrintExtractedText outputs a summary of the plain text pulled from a document.
func (p *Printer) PrintExtractedText(filename, mediaType, text string) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("File:       %s\n", filename))
	sb.WriteString(fmt.Sprintf("Type:       %s\n", mediaType))
	sb.WriteString(fmt.Sprintf("Characters: %d\n", utf8.RuneCountInString(text)))

	if text == "" {
		sb.WriteString("\n(no text extracted)")
		p.printBox("EXTRACTED TEXT", sb.String())
		return
	}

	lines := strings.Split(text, "\n")
	sb.WriteString(fmt.Sprintf("Lines:      %d\n\n", len(lines)))
	count := min(len(lines), previewLines)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i])
		sb.WriteString("\n")
	}
	if len(lines) > previewLines {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-previewLines))
	}

	p.printBox("EXTRACTED TEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStructured outputs the skills, education and experience recovered
// from a résumé.
func (p *Printer) PrintStructured(data types.StructuredResumeData) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Skills (%d):\n", len(data.Skills)))
	count := min(len(data.Skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", data.Skills[i]))
	}
	if len(data.Skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(data.Skills)-maxItemsToShow))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Education (%d):\n", len(data.Education)))
	for i, edu := range data.Education {
		if i == maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(data.Education)-maxItemsToShow))
			break
		}
		line := edu.Institution
		if edu.Degree != "" {
			line = strings.TrimSpace(edu.Degree + ", " + line)
		}
		sb.WriteString(fmt.Sprintf("  • %s", line))
		if span := dateSpan(edu.StartDate, edu.EndDate); span != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", span))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(data.Experiences)))
	for i, exp := range data.Experiences {
		if i == maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(data.Experiences)-maxItemsToShow))
			break
		}
		line := exp.Title
		if exp.Employer != "" {
			if line != "" {
				line += " @ "
			}
			line += exp.Employer
		}
		sb.WriteString(fmt.Sprintf("  • %s", line))
		if span := dateSpan(exp.StartDate, exp.EndDate); span != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", span))
		}
		sb.WriteString("\n")
	}

	p.printBox("STRUCTURED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

func dateSpan(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start + " -"
	default:
		return end
	}
}
