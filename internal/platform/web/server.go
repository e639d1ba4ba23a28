// Package web serves match-3 scores over HTTP and streams an autoplayed
// demo board over WebSocket.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-match3/internal/games/match3/autoplay"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

// Config holds configuration for the HTTP server.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration

	// DemoInterval is the pause between demo moves.
	DemoInterval time.Duration
	// DemoMoves ends a demo stream after that many moves. Zero streams
	// until the client leaves.
	DemoMoves int
	// Demo is the board every demo stream plays. A zero Seed picks one per
	// stream.
	Demo autoplay.Config
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:         ":8080",
		ReadTimeout:     15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		DemoInterval:    500 * time.Millisecond,
		Demo: autoplay.Config{
			Width:    8,
			Height:   8,
			Types:    6,
			Strategy: autoplay.StrategyGreedy,
		},
	}
}

// Server is the HTTP front-end.
type Server struct {
	config Config
	store  storage.Store
	logger *log.Logger
	server *http.Server
}

// NewServer creates a server reading scores from store, which may be nil.
// The caller owns store.
func NewServer(cfg Config, store storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "match3-web",
		})
	}
	if cfg.DemoInterval <= 0 {
		cfg.DemoInterval = DefaultConfig().DemoInterval
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}

	s := &Server{config: cfg, store: store, logger: logger}
	s.server = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadTimeout,
	}
	return s
}

// Handler returns the router with every route and middleware installed.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(recovery(s.logger))
	r.Use(logging(s.logger))

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/modes", s.modes).Methods(http.MethodGet)
	api.HandleFunc("/scores/{mode}", s.scores).Methods(http.MethodGet)
	api.HandleFunc("/stats/{mode}", s.stats).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{mode}", s.sessions).Methods(http.MethodGet)
	api.HandleFunc("/session/{id}", s.session).Methods(http.MethodGet)

	r.HandleFunc("/ws/demo", s.demo).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting HTTP server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("web: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.config.Address
}
