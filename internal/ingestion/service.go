// Package ingestion accepts uploaded résumés, extracts their text and
// structured data, and persists the text on the user's record.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onelink/portfolio-api/internal/archive"
	"github.com/onelink/portfolio-api/internal/cache"
	"github.com/onelink/portfolio-api/internal/events"
	"github.com/onelink/portfolio-api/internal/logging"
	"github.com/onelink/portfolio-api/internal/metrics"
	"github.com/onelink/portfolio-api/internal/textextract"
	"github.com/onelink/portfolio-api/internal/types"
)

// ErrUnsupportedMediaType is returned by Ingest for anything that is not a
// PDF or DOCX. Nothing is written when it is returned.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// PersistenceError wraps a user store failure during Ingest.
type PersistenceError struct {
	UserID uuid.UUID
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist resume for user %s: %v", e.UserID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Upload is one uploaded document.
type Upload struct {
	ContentType string
	Filename    string
	Data        []byte
}

// TextExtractor turns a file on disk into plain text. It never fails.
type TextExtractor interface {
	Extract(ctx context.Context, path, mediaType string) string
}

// StructuredExtractor derives structured data from plain text.
type StructuredExtractor interface {
	Extract(ctx context.Context, text string) types.StructuredResumeData
}

// UserStore persists résumé text on user records.
type UserStore interface {
	UpdateResume(ctx context.Context, userID uuid.UUID, raw, text string) error
	GetResumeRaw(ctx context.Context, userID uuid.UUID) (string, error)
}

// Service runs the upload pipeline.
type Service struct {
	temp       TempStore
	text       TextExtractor
	structured StructuredExtractor
	users      UserStore

	cache     cache.TextCache
	archiver  archive.Archiver
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables the read-through text cache.
func WithCache(c cache.TextCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithArchiver stores original uploads after they are persisted.
func WithArchiver(a archive.Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithPublisher emits a resume.ingested event per upload.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service. Cache, archive and events default to no-ops.
func NewService(temp TempStore, text TextExtractor, structured StructuredExtractor, users UserStore, opts ...Option) *Service {
	s := &Service{
		temp:       temp,
		text:       text,
		structured: structured,
		users:      users,
		cache:      cache.Noop{},
		archiver:   archive.Noop{},
		publisher:  events.Noop{},
		logger:     logging.Component("ingestion"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest validates, extracts and persists one upload for userID.
//
// The declared type is checked before any file is touched. The transient
// copy of the upload is removed on every return path.
func (s *Service) Ingest(ctx context.Context, upload Upload, userID uuid.UUID) (resp *types.UploadResponse, err error) {
	start := s.now()
	mediaType := textextract.NormalizeMediaType(upload.ContentType)
	label := textextract.Label(mediaType)
	if !textextract.Supported(mediaType) {
		metrics.RecordUpload(label, metrics.OutcomeUnsupported)
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, upload.ContentType)
	}

	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeError
		}
		metrics.RecordUpload(label, outcome)
		metrics.ObserveIngest(s.now().Sub(start))
	}()

	path, release, err := s.materialize(upload.Data, textextract.Suffix(mediaType))
	if err != nil {
		return nil, err
	}
	defer release()

	raw := s.text.Extract(ctx, path, mediaType)
	data := s.structured.Extract(ctx, raw).Normalize()

	if err := s.users.UpdateResume(ctx, userID, raw, Truncate(raw, StoredTextLimit)); err != nil {
		return nil, &PersistenceError{UserID: userID, Err: err}
	}

	meta := NewMetadata(upload, mediaType, start)
	s.logger.Info("resume ingested",
		"user_id", userID,
		"filename", meta.Filename,
		"media_type", label,
		"size", meta.Size,
		"hash", meta.Hash,
		"text_length", len([]rune(raw)),
		"skills", len(data.Skills),
	)
	s.afterPersist(ctx, userID, upload, meta, raw, data)

	return BuildResponse(upload.Filename, raw, data), nil
}

// materialize writes data to a new transient file. The returned release
// function removes it and is safe to call more than once.
func (s *Service) materialize(data []byte, suffix string) (string, func(), error) {
	f, err := s.temp.Create(suffix)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := s.temp.Remove(path); err != nil {
				s.logger.Warn("transient file not removed", "path", path, "error", err)
			}
		})
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		release()
		return "", nil, fmt.Errorf("failed to write transient file: %w", err)
	}
	if err := f.Close(); err != nil {
		release()
		return "", nil, fmt.Errorf("failed to close transient file: %w", err)
	}
	return path, release, nil
}

// afterPersist runs side effects that must never fail the upload.
func (s *Service) afterPersist(ctx context.Context, userID uuid.UUID, upload Upload, meta Metadata, raw string, data types.StructuredResumeData) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("cached resume text not invalidated", "user_id", userID, "error", err)
	}

	key, err := s.archiver.Put(ctx, archive.Object{
		UserID:      userID,
		Filename:    upload.Filename,
		ContentType: meta.MediaType,
		Suffix:      textextract.Suffix(meta.MediaType),
		SHA256:      meta.Hash,
		Data:        upload.Data,
	})
	if err != nil {
		s.logger.Warn("upload not archived", "user_id", userID, "error", err)
	} else if key != "" {
		s.logger.Debug("upload archived", "user_id", userID, "key", key)
	}

	err = s.publisher.PublishResumeIngested(ctx, events.ResumeIngested{
		UserID:          userID,
		Filename:        upload.Filename,
		MediaType:       meta.MediaType,
		TextLength:      len([]rune(raw)),
		SkillsCount:     len(data.Skills),
		EducationCount:  len(data.Education),
		ExperienceCount: len(data.Experiences),
		IngestedAt:      meta.Timestamp,
	})
	if err != nil {
		s.logger.Warn("resume.ingested not published", "user_id", userID, "error", err)
	}
}

// BuildResponse assembles the upload response with a bounded text preview.
func BuildResponse(filename, raw string, data types.StructuredResumeData) *types.UploadResponse {
	data = data.Normalize()
	return &types.UploadResponse{
		Message: fmt.Sprintf("Resume %s uploaded successfully", filename),
		ParsedData: types.ParsedData{
			Experiences: data.Experiences,
			Education:   data.Education,
			Skills:      data.Skills,
			RawText:     Preview(raw, PreviewLimit),
		},
	}
}

// GetStoredText returns the full stored text for userID, or "" when the user
// never uploaded a résumé.
func (s *Service) GetStoredText(ctx context.Context, userID uuid.UUID) (string, error) {
	text, found, err := s.cache.Get(ctx, userID)
	switch {
	case err != nil:
		s.logger.Warn("resume text cache read failed", "user_id", userID, "error", err)
	case found:
		return text, nil
	}

	// The version is taken before the load so a concurrent upload makes the
	// fill below a no-op instead of caching the older text.
	version, verr := s.cache.Version(ctx, userID)
	if verr != nil {
		s.logger.Warn("resume text cache version unavailable", "user_id", userID, "error", verr)
	}

	raw, err := s.users.GetResumeRaw(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load resume text: %w", err)
	}
	if raw != "" && verr == nil {
		stored, err := s.cache.Fill(ctx, userID, raw, version)
		switch {
		case err != nil:
			s.logger.Warn("resume text not cached", "user_id", userID, "error", err)
		case !stored:
			s.logger.Debug("resume text changed during load, not cached", "user_id", userID)
		}
	}
	return raw, nil
}

// Forget drops any cached text for userID. Called when an account is deleted.
func (s *Service) Forget(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("resume text not evicted", "user_id", userID, "error", err)
	}
}
