package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes one accepted upload.
type Metadata struct {
	Filename  string    `json:"filename"`
	MediaType string    `json:"media_type"`
	Size      int       `json:"size"`
	Hash      string    `json:"hash"` // SHA256 hex digest of the original bytes
	Timestamp time.Time `json:"timestamp"`
}

// NewMetadata describes upload as received at now.
func NewMetadata(upload Upload, mediaType string, now time.Time) Metadata {
	return Metadata{
		Filename:  upload.Filename,
		MediaType: mediaType,
		Size:      len(upload.Data),
		Hash:      computeHash(upload.Data),
		Timestamp: now.UTC(),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
