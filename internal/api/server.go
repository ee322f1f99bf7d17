package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sb-insight/agreement-service/internal/agreement"
	"github.com/sb-insight/agreement-service/internal/config"
	"github.com/sb-insight/agreement-service/internal/ratelimit"
)

// Server wraps the HTTP server and its routed handlers.
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new API server around the pipeline.
func NewServer(cfg config.ServerConfig, pipeline *agreement.Pipeline, limiter *ratelimit.Limiter) *Server {
	handlers := NewHandlers(pipeline)
	router := SetupRoutes(handlers, limiter)

	return &Server{
		config:  cfg,
		handler: router,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
