// Package prompts holds the LLM prompt templates, embedded as JSON objects
// mapping a key to a template.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// catalog is every embedded file parsed once, keyed by file name.
var catalog = sync.OnceValues(func() (map[string]map[string]string, error) {
	names, err := fs.Glob(promptFiles, "*.json")
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]string, len(names))
	for _, name := range names {
		raw, err := promptFiles.ReadFile(name)
		if err != nil {
			return nil, err
		}
		var templates map[string]string
		if err := json.Unmarshal(raw, &templates); err != nil {
			return nil, fmt.Errorf("prompt file %s: %w", name, err)
		}
		out[name] = templates
	}
	return out, nil
})

// Get returns the template stored under key in file, e.g.
// Get("resume.json", "extract-resume").
func Get(file, key string) (string, error) {
	all, err := catalog()
	if err != nil {
		return "", err
	}
	templates, ok := all[file]
	if !ok {
		return "", fmt.Errorf("no prompt file %s", file)
	}
	tmpl, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt %q not found in %s", key, file)
	}
	return tmpl, nil
}

// Format substitutes {{.Key}} placeholders. Unknown placeholders are left
// in place.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
