// Package api serves the HTTP endpoints of a running helocheck process:
// liveness, device readiness, scan progress and Prometheus metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/marmos91/helocheck/internal/logger"
	"github.com/marmos91/helocheck/pkg/api/handlers"
)

// Server provides the HTTP server for health and metrics.
//
// The server supports graceful shutdown when its context is cancelled.
type Server struct {
	server       *http.Server
	config       Config
	shutdownOnce sync.Once

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a new server in a stopped state. Call Start to begin
// serving requests.
//
// Parameters:
//   - config: Server configuration (port, timeouts)
//   - dev: Device probed by /health/ready (may be nil)
//   - progress: Source for /progress (may be nil)
//   - reg: Registry exposed on /metrics (nil disables the endpoint)
func NewServer(config Config, dev handlers.HealthChecker, progress handlers.ProgressSource, reg *prometheus.Registry) *Server {
	config.ApplyDefaults()

	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.Port),
			Handler:           NewRouter(dev, progress, reg),
			ReadTimeout:       config.ReadTimeout,
			ReadHeaderTimeout: config.ReadTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
		},
		config: config,
	}
}

// Start listens on the configured port and serves until ctx is cancelled or
// the server fails.
//
// Returns:
//   - nil on graceful shutdown
//   - error if the server fails to start or shutdown encounters an error
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("metrics server failed: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Metrics server listening", "address", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		// The cancelled ctx would abort the shutdown immediately
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("metrics server failed: %w", err)
	}
}

// Stop initiates graceful shutdown. It is safe to call multiple times.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("metrics server shutdown error: %w", err)
			logger.Error("Metrics server shutdown error", logger.Err(err))
		} else {
			logger.Debug("Metrics server stopped")
		}
	})
	return shutdownErr
}

// Addr returns the address the server is listening on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
