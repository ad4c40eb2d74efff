// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, engine invocation, output serialization.
// The API NEVER performs tax logic.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pajakin/core/engine"
	"pajakin/internal/config"
)

// Server is the API server
type Server struct {
	handler *Handler
	router  chi.Router
	version string
	cfg     config.ServerConfig
	logger  *zap.Logger
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, eng *engine.Engine, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("api")

	s := &Server{
		handler: NewHandler(eng, cfg.Calculation, version, logger),
		router:  chi.NewRouter(),
		version: version,
		cfg:     cfg.Server,
		logger:  logger,
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.Use(RequestID)
	s.router.Use(Logger(s.logger))
	s.router.Use(chimw.Recoverer)
	s.router.Use(RateLimit(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst, s.logger))
	s.router.Use(BodyLimit(s.cfg.MaxBodyBytes))

	// Core endpoints
	s.router.Post("/calculate", s.handler.HandleCalculate)
	s.router.Post("/brackets/compute", s.handler.HandleCompute)

	// Reference data
	s.router.Get("/brackets", s.handler.HandleBrackets)
	s.router.Get("/categories", s.handler.HandleCategories)
	s.router.Get("/categories/*", s.handler.HandleCategory)

	// Supporting endpoints
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "NOT_FOUND", "no route for "+r.URL.Path, http.StatusNotFound)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path, http.StatusMethodNotAllowed)
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "pajakin",
		"api_version": "v1",
	}, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, code, message string, status int) {
	writeJSON(w, ErrorBody{Error: ErrorDetail{
		Code:      code,
		Message:   message,
		RequestID: GetRequestID(r.Context()),
	}}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then drains in-flight requests
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
