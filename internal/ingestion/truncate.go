package ingestion

// Limits applied to extracted text, counted in runes.
const (
	StoredTextLimit = 5000
	PreviewLimit    = 1000
	PreviewMarker   = "..."
)

// Truncate returns the first limit runes of s.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

// Preview returns s unchanged when it fits in limit runes, otherwise the first
// limit runes followed by PreviewMarker.
func Preview(s string, limit int) string {
	t := Truncate(s, limit)
	if len(t) == len(s) {
		return s
	}
	return t + PreviewMarker
}
