// Package web serves a read-only JSON API over saved reconciliation runs,
// for the review UI and ad-hoc inspection.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/townreach/ownermatch/internal/config"
	"github.com/townreach/ownermatch/internal/store"
)

// Server is the HTTP server over the run document store.
type Server struct {
	config     config.ServerConfig
	store      store.Store
	logger     zerolog.Logger
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server backed by the given document store.
func NewServer(cfg config.ServerConfig, st store.Store, logger zerolog.Logger) *Server {
	server := &Server{
		config: cfg,
		store:  st,
		logger: logger,
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/runs/{id}/counts", s.handleRunCounts).Methods("GET")
	api.HandleFunc("/runs/{id}/failures", s.handleRunFailures).Methods("GET")
	api.HandleFunc("/runs/{id}/groups", s.handleRunGroups).Methods("GET")
	api.HandleFunc("/runs/{id}/groups/{index:[0-9]+}", s.handleRunGroup).Methods("GET")
	api.HandleFunc("/runs/{id}/near-misses", s.handleRunNearMisses).Methods("GET")

	s.router.Use(s.requestLogging)
}

// requestLogging logs each request with method, path, status and duration.
func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Starting server")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Server error")
		}
	}()

	<-stop
	s.logger.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Server shutdown error")
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Store close error")
	}

	s.logger.Info().Msg("Server stopped")
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
