package textextract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	excessBlank = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted text while keeping its line structure:
// line endings become LF, control bytes and invalid UTF-8 are dropped, runs of spaces inside a line collapse to one,
// trailing spaces go, at most one blank line separates blocks, and the whole
// result is trimmed.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = StripControl(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := excessBlank.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	// Bullets keep their indentation so nested lists survive.
	if isBulletLine(trimmed) {
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		return strings.Repeat(" ", indent) + innerSpace.ReplaceAllString(trimmed, " ")
	}
	return innerSpace.ReplaceAllString(trimmed, " ")
}

func isBulletLine(trimmed string) bool {
	for _, prefix := range []string{"- ", "* ", "• ", "· ", "▪ "} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// StripControl drops invalid UTF-8 and the C0 control characters other than
// newline and tab, plus DEL. Postgres rejects NUL in text columns.
func StripControl(s string) string {
	clean := true
	for _, r := range s {
		if r == utf8.RuneError || isDropped(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		if isDropped(r) {
			return -1
		}
		return r
	}, s)
}

func isDropped(r rune) bool {
	return (r < 0x20 && r != '\n' && r != '\t') || r == 0x7f
}
