// Package server exposes a Store over a local JSON API and streams
// gamification notifications over a websocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/josephgoksu/TaskQuest/internal/store"
	"github.com/josephgoksu/TaskQuest/internal/telemetry"
)

const (
	shutdownTimeout = 5 * time.Second
	pruneInterval   = time.Second
)

// Options configures a Server.
type Options struct {
	Port           int
	AllowedOrigins []string
	Logger         *slog.Logger
	Telemetry      telemetry.Client
}

type Server struct {
	store     *store.Store
	log       *slog.Logger
	telemetry telemetry.Client
	origins   []string
	port      int
	handler   http.Handler
}

func New(st *store.Store, opts Options) *Server {
	s := &Server{
		store:     st,
		log:       opts.Logger,
		telemetry: opts.Telemetry,
		origins:   opts.AllowedOrigins,
		port:      opts.Port,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.telemetry == nil {
		s.telemetry = telemetry.NoopClient{}
	}
	s.handler = s.routes()
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves on 127.0.0.1:port until ctx is cancelled, then shuts down
// gracefully. Expired notifications are pruned while it runs.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go s.pruneLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("api server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.store.PruneNotifications(); n > 0 {
				s.log.Debug("notifications pruned", "count", n)
			}
		}
	}
}

// persist saves after a mutation. Failures are logged, not returned: the
// in-memory state stays authoritative and the next save retries.
func (s *Server) persist(ctx context.Context) {
	if err := s.store.Save(ctx); err != nil {
		s.log.Warn("save state failed", "error", err)
	}
}
