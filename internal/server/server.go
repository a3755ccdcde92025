// Package server provides the HTTP API of the OneLink portfolio service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/onelink/portfolio-api/internal/config"
	"github.com/onelink/portfolio-api/internal/ingestion"
	"github.com/onelink/portfolio-api/internal/metrics"
	"github.com/onelink/portfolio-api/internal/server/middleware"
	"github.com/onelink/portfolio-api/internal/server/ratelimit"
	"github.com/onelink/portfolio-api/internal/types"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
	healthTimeout   = 2 * time.Second
)

// Pinger reports database reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ResumeService is the ingestion pipeline as seen by the HTTP layer.
type ResumeService interface {
	Ingest(ctx context.Context, upload ingestion.Upload, userID uuid.UUID) (*types.UploadResponse, error)
	GetStoredText(ctx context.Context, userID uuid.UUID) (string, error)
	Forget(ctx context.Context, userID uuid.UUID)
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	db             Pinger
	resumes        ResumeService
	rateLimiter    *ratelimit.Limiter
	jwtService     *JWTService
	userService    *UserService
	authHandler    *AuthHandler
	logger         *slog.Logger
	maxUploadBytes int64
	corsOrigins    []string
}

// Config holds server configuration
type Config struct {
	Port               int
	MaxUploadBytes     int64
	CORSAllowedOrigins []string
}

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Users     DBClient
	DB        Pinger
	Resumes   ResumeService
	JWT       *JWTService
	Passwords *config.PasswordConfig
	Limiter   *ratelimit.Limiter
	Logger    *slog.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	s := &Server{
		db:             deps.DB,
		resumes:        deps.Resumes,
		rateLimiter:    limiter,
		jwtService:     deps.JWT,
		userService:    NewUserService(deps.Users, deps.Passwords),
		logger:         logger,
		maxUploadBytes: cfg.MaxUploadBytes,
		corsOrigins:    cfg.CORSAllowedOrigins,
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, logger)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Routes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.withLogging)
	r.Use(chimw.Recoverer)
	r.Use(s.withMetrics)
	r.Use(s.withCORS)
	r.Use(s.withRateLimit)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.authHandler.Register)
		r.Post("/login", s.authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.jwtService.AsTokenValidator()))

		r.Get("/users/me", s.handleGetMe)
		r.Put("/users/me", s.handleUpdateMe)
		r.Delete("/users/me", s.handleDeleteMe)
		r.Put("/users/me/password", s.authHandler.UpdatePassword)

		r.Post("/resume/upload", s.handleResumeUpload)
		r.Get("/resume/text", s.handleResumeText)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return err
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "OneLink Portfolio API"})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		s.logger.Warn("health check: database unreachable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Error("encoding JSON response", "error", err)
	}
}

// writeError writes an error JSON response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps err to a status and client message. Server-side
// failures are logged with their cause and reported generically.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeError(w, status, publicMessage(err))
}
