// Package config provides configuration loading and validation for the API server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Structured extraction strategies accepted by STRUCTURED_EXTRACTOR.
const (
	ExtractorNone    = "none"
	ExtractorKeyword = "keyword"
	ExtractorGemini  = "gemini"
)

// ServerConfig represents the server configuration read from the environment.
// Optional integrations (cache, archive, events) are disabled when their
// address is empty.
type ServerConfig struct {
	Port        int
	DatabaseURL string

	// Uploads
	MaxUploadMB int
	TempDir     string

	// Structured extraction
	Extractor     string
	GeminiAPIKey  string
	GeminiTier    string
	ExtractorTime time.Duration

	// Text cache
	RedisAddr     string
	RedisPassword string
	RedisTTL      time.Duration

	// Upload archive (S3 or R2)
	ArchiveBucket    string
	ArchiveEndpoint  string
	ArchiveRegion    string
	ArchiveAccessKey string
	ArchiveSecretKey string

	// Events
	RabbitMQURL    string
	EventsExchange string

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string
}

// LoadServerConfig reads the server configuration from environment variables
// and validates it.
func LoadServerConfig() (*ServerConfig, error) {
	port, err := envInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	maxUpload, err := envInt("MAX_UPLOAD_MB", 10)
	if err != nil {
		return nil, err
	}
	ttlMinutes, err := envInt("REDIS_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	extractorSeconds, err := envInt("EXTRACTOR_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	cfg := &ServerConfig{
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MaxUploadMB:        maxUpload,
		TempDir:            envString("TEMP_DIR", os.TempDir()),
		Extractor:          strings.ToLower(envString("STRUCTURED_EXTRACTOR", ExtractorNone)),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiTier:         envString("GEMINI_MODEL_TIER", "lite"),
		ExtractorTime:      time.Duration(extractorSeconds) * time.Second,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisTTL:           time.Duration(ttlMinutes) * time.Minute,
		ArchiveBucket:      os.Getenv("ARCHIVE_BUCKET"),
		ArchiveEndpoint:    os.Getenv("ARCHIVE_ENDPOINT"),
		ArchiveRegion:      envString("ARCHIVE_REGION", "auto"),
		ArchiveAccessKey:   os.Getenv("ARCHIVE_ACCESS_KEY"),
		ArchiveSecretKey:   os.Getenv("ARCHIVE_SECRET_KEY"),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		EventsExchange:     envString("EVENTS_EXCHANGE", "resume_events"),
		CORSAllowedOrigins: SplitList(envString("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           envString("LOG_LEVEL", "info"),
		LogFormat:          envString("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
// DATABASE_URL is not checked here because only some commands need it.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT out of range: %d", c.Port)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("config error: MAX_UPLOAD_MB must be at least 1, got: %d", c.MaxUploadMB)
	}
	switch c.Extractor {
	case ExtractorNone, ExtractorKeyword:
	case ExtractorGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("config error: GEMINI_API_KEY is required when STRUCTURED_EXTRACTOR=gemini")
		}
	default:
		return fmt.Errorf("config error: unknown STRUCTURED_EXTRACTOR %q (want none, keyword or gemini)", c.Extractor)
	}
	if c.RedisTTL <= 0 {
		return fmt.Errorf("config error: REDIS_TTL_MINUTES must be positive")
	}
	if c.ArchiveBucket != "" && (c.ArchiveAccessKey == "") != (c.ArchiveSecretKey == "") {
		return fmt.Errorf("config error: ARCHIVE_ACCESS_KEY and ARCHIVE_SECRET_KEY must be set together")
	}
	return nil
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *ServerConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// SplitList splits a comma-separated value, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}
