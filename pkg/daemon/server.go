// Package daemon implements the tonicd background service: a sampling
// loop, snapshot history, and an HTTP/JSON API served over a unix socket.
package daemon

import (
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jamesainslie/tonic/pkg/daemon/broadcaster"
	"github.com/jamesainslie/tonic/pkg/daemon/sampler"
	"github.com/jamesainslie/tonic/pkg/daemon/store"
	"github.com/jamesainslie/tonic/pkg/daemon/watcher"
	"github.com/jamesainslie/tonic/pkg/toolkit/sysinfo"
)

// Config holds daemon configuration.
type Config struct {
	SocketPath string
	DataDir    string
}

// Server is the tonicd HTTP server.
type Server struct {
	cfg      Config
	http     *http.Server
	listener net.Listener

	collector   *sysinfo.Collector
	sampler     *sampler.Sampler
	store       *store.Store
	broadcaster *broadcaster.Broadcaster
	watcher     *watcher.Watcher

	startTime    time.Time
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewServer creates a new daemon server listening on a unix socket.
// The store and watcher may be nil when history or target watching is
// disabled.
func NewServer(cfg Config, c *sysinfo.Collector, smp *sampler.Sampler,
	st *store.Store, b *broadcaster.Broadcaster, w *watcher.Watcher) (*Server, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}

	// Remove stale socket if exists
	if err := os.RemoveAll(cfg.SocketPath); err != nil {
		return nil, err
	}

	// Ensure socket directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.SocketPath), 0755); err != nil {
		return nil, err
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(context.Background(), "unix", cfg.SocketPath)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:         cfg,
		listener:    listener,
		collector:   c,
		sampler:     smp,
		store:       st,
		broadcaster: b,
		watcher:     w,
		startTime:   time.Now(),
		shutdown:    make(chan struct{}),
	}
	srv.http = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return srv, nil
}

// routes builds the chi router for the daemon API.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/info", s.handleInfo)
		r.Get("/history", s.handleHistory)
		r.Get("/events", s.handleEvents)
		r.Post("/shutdown", s.handleShutdown)
	})

	return r
}

// Serve starts the HTTP server. Blocks until stopped.
func (s *Server) Serve() error {
	err := s.http.Serve(s.listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// ShutdownRequested returns a channel that is closed when a client asks
// the daemon to exit via POST /v1/shutdown.
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdown
}

// Close stops the server and cleans up the socket.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.http.Shutdown(ctx)
	return os.RemoveAll(s.cfg.SocketPath)
}
