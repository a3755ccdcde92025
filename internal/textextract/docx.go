package textextract

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// readDOCX returns the document's non-blank paragraphs, trimmed, one per line.
func readDOCX(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer doc.Close()

	paragraphs, err := paragraphsFromXML(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("failed to parse docx body: %w", err)
	}
	return JoinParagraphs(paragraphs), nil
}

// JoinParagraphs keeps paragraphs with non-whitespace content, trims them and
// joins them with a single newline, preserving order. Control bytes are
// dropped first.
func JoinParagraphs(paragraphs []string) string {
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if p = strings.TrimSpace(StripControl(p)); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

// paragraphsFromXML walks word/document.xml and returns the text of every
// w:p element in document order, table cells included. Text boxes nest
// paragraphs inside paragraphs, so open paragraphs are kept on a stack.
// Word writes each text box twice, as mc:Choice and as a VML mc:Fallback;
// only the Choice copy is read.
func paragraphsFromXML(body string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(body))

	var (
		paragraphs []string
		stack      []*strings.Builder
		inText     bool
		inProps    int // w:pPr holds tab stops that are not content
		inFallback int
	)
	current := func() *strings.Builder {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if inFallback > 0 {
			switch t := tok.(type) {
			case xml.StartElement:
				if t.Name.Local == "Fallback" {
					inFallback++
				}
			case xml.EndElement:
				if t.Name.Local == "Fallback" {
					inFallback--
				}
			}
			continue
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Fallback":
				inFallback++
			case "p":
				stack = append(stack, &strings.Builder{})
			case "pPr":
				inProps++
			case "t":
				inText = true
			case "tab":
				if b := current(); b != nil && inProps == 0 {
					b.WriteByte('\t')
				}
			case "br", "cr":
				if b := current(); b != nil {
					b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if b := current(); b != nil {
					paragraphs = append(paragraphs, b.String())
					stack = stack[:len(stack)-1]
				}
			case "pPr":
				inProps--
			case "t":
				inText = false
			}
		case xml.CharData:
			if b := current(); inText && b != nil {
				b.Write(t)
			}
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("unterminated paragraph")
	}
	return paragraphs, nil
}
