package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/certpanel/certpanel/core/logger"
)

// Server wraps http.Server with lifecycle management tied to a context.
type Server struct {
	httpServer      *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
}

// New creates a server listening on addr with sane timeout defaults.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			ReadTimeout:       DefaultReadTimeout,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			WriteTimeout:      DefaultWriteTimeout,
			IdleTimeout:       DefaultIdleTimeout,
			MaxHeaderBytes:    DefaultMaxHeaderBytes,
		},
		log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig creates a server from an environment-derived Config.
// Explicit options override config values.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	base := []Option{
		WithReadTimeout(cfg.ReadTimeout),
		WithWriteTimeout(cfg.WriteTimeout),
		WithIdleTimeout(cfg.IdleTimeout),
		WithShutdownTimeout(cfg.ShutdownTimeout),
	}
	return New(cfg.Addr(), append(base, opts...)...)
}

// Start runs the server until the context is canceled or the listener
// fails, then performs a graceful shutdown bounded by the shutdown
// timeout. A clean shutdown returns nil.
func (s *Server) Start(ctx context.Context, h http.Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	s.httpServer.Handler = h

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Join(ErrFailedToStartServer, err)
		}
		return nil
	case <-ctx.Done():
		return s.Stop(context.WithoutCancel(ctx))
	}
}

// Stop gracefully shuts the server down, waiting up to the shutdown
// timeout for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	s.log.InfoContext(ctx, "server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.ErrorContext(ctx, "server shutdown failed", logger.Error(err))
		return errors.Join(ErrFailedToStopServer, err)
	}
	return nil
}

// Run returns a function suitable for errgroup.Group.Go that starts the
// server and blocks until shutdown.
func (s *Server) Run(ctx context.Context, h http.Handler) func() error {
	return func() error {
		return s.Start(ctx, h)
	}
}
