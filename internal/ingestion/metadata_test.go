package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMetadata(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("EST", -5*3600))
	upload := Upload{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("abc")}

	m := NewMetadata(upload, "application/pdf", now)

	assert.Equal(t, "cv.pdf", m.Filename)
	assert.Equal(t, "application/pdf", m.MediaType)
	assert.Equal(t, 3, m.Size)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", m.Hash)
	assert.Equal(t, time.UTC, m.Timestamp.Location())
	assert.True(t, now.Equal(m.Timestamp))
}

func TestComputeHash(t *testing.T) {
	hash1 := computeHash([]byte("test content"))
	hash2 := computeHash([]byte("different content"))

	// Hash should be 64 hex characters (SHA256)
	assert.Len(t, hash1, 64)
	assert.Len(t, hash2, 64)
	assert.NotEqual(t, hash1, hash2)
	assert.Equal(t, hash1, computeHash([]byte("test content")))
}
