package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/onelink/portfolio-api/internal/archive"
	"github.com/onelink/portfolio-api/internal/cache"
	"github.com/onelink/portfolio-api/internal/config"
	"github.com/onelink/portfolio-api/internal/db"
	"github.com/onelink/portfolio-api/internal/events"
	"github.com/onelink/portfolio-api/internal/ingestion"
	"github.com/onelink/portfolio-api/internal/logging"
	"github.com/onelink/portfolio-api/internal/parsing"
	"github.com/onelink/portfolio-api/internal/server"
	"github.com/onelink/portfolio-api/internal/server/ratelimit"
	"github.com/onelink/portfolio-api/internal/textextract"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes authentication, profile and résumé upload endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	logger := logging.Component("serve")

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	structured, closeExtractor, err := parsing.New(ctx, parsing.Options{
		Strategy: cfg.Extractor,
		APIKey:   cfg.GeminiAPIKey,
		Tier:     cfg.GeminiTier,
		Timeout:  cfg.ExtractorTime,
		Logger:   logging.Component("parsing"),
	})
	if err != nil {
		return fmt.Errorf("failed to create structured extractor: %w", err)
	}
	defer closeOrLog(logger, "extractor", closeExtractor)

	opts, closers, err := integrations(ctx, cfg, logger)
	defer func() {
		for _, c := range closers {
			closeOrLog(logger, c.name, c.close)
		}
	}()
	if err != nil {
		return err
	}

	resumes := ingestion.NewService(
		ingestion.OSTempStore{Dir: cfg.TempDir},
		textextract.New(logging.Component("textextract")),
		structured,
		database,
		opts...,
	)

	srv := server.New(server.Config{
		Port:               cfg.Port,
		MaxUploadBytes:     cfg.MaxUploadBytes(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, server.Deps{
		Users:     database,
		DB:        database,
		Resumes:   resumes,
		JWT:       server.NewJWTService(jwtConfig),
		Passwords: passwordConfig,
		Limiter:   ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:    logging.Component("server"),
	})

	logger.Info("starting",
		"port", cfg.Port,
		"extractor", cfg.Extractor,
		"cache", cfg.RedisAddr != "",
		"archive", cfg.ArchiveBucket != "",
		"events", cfg.RabbitMQURL != "",
	)
	return srv.Start(ctx)
}

type closer struct {
	name  string
	close func() error
}

// integrations connects the optional cache, archive and event publisher.
// Each one is left out when its address is not configured. The returned
// closers must be run even when err is non-nil.
func integrations(ctx context.Context, cfg *config.ServerConfig, logger *slog.Logger) ([]ingestion.Option, []closer, error) {
	opts := []ingestion.Option{ingestion.WithLogger(logging.Component("ingestion"))}
	var closers []closer

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, closers, err
		}
		rc := cache.NewRedisCache(client, cfg.RedisTTL)
		closers = append(closers, closer{"cache", rc.Close})
		opts = append(opts, ingestion.WithCache(rc))
		logger.Info("text cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.RedisTTL)
	}

	archiveCfg := archive.Config{
		Bucket:    cfg.ArchiveBucket,
		Endpoint:  cfg.ArchiveEndpoint,
		Region:    cfg.ArchiveRegion,
		AccessKey: cfg.ArchiveAccessKey,
		SecretKey: cfg.ArchiveSecretKey,
	}
	if archiveCfg.Enabled() {
		archiver, err := archive.NewS3Archiver(ctx, archiveCfg)
		if err != nil {
			return nil, closers, err
		}
		opts = append(opts, ingestion.WithArchiver(archiver))
		logger.Info("upload archive enabled", "bucket", cfg.ArchiveBucket)
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := events.Dial(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, closer{"events", publisher.Close})
		opts = append(opts, ingestion.WithPublisher(publisher))
		logger.Info("event publishing enabled", "exchange", cfg.EventsExchange)
	}

	return opts, closers, nil
}

func closeOrLog(logger *slog.Logger, name string, fn func() error) {
	if err := fn(); err != nil {
		logger.Warn("close failed", "component", name, "error", err)
	}
}
