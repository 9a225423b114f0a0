package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/shuldan/ioc/pkg/contracts"
	"github.com/shuldan/ioc/pkg/executor"
)

// Server is a Runner that serves NewHandler until its context is cancelled.
// It runs on a dedicated single-slot pool.
type Server struct {
	name            string
	addr            string
	handler         http.Handler
	logger          contracts.Logger
	shutdownTimeout time.Duration

	mu    sync.RWMutex
	bound string
}

var (
	_ contracts.NamedRunner      = (*Server)(nil)
	_ contracts.ExecutorProvider = (*Server)(nil)
)

func NewServer(addr string, handler http.Handler, logger contracts.Logger) *Server {
	if addr == "" {
		addr = ":8081"
	}
	return &Server{
		name:            "health",
		addr:            addr,
		handler:         handler,
		logger:          logger,
		shutdownTimeout: 5 * time.Second,
	}
}

func (s *Server) Name() string {
	return s.name
}

// Addr is the bound address once Run is listening, the configured one before.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bound != "" {
		return s.bound
	}
	return s.addr
}

func (s *Server) Executor(context.Context) (contracts.Executor, error) {
	return executor.NewPool(s.name, 1, executor.WithLogger(s.logger))
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return ErrServerStart.WithDetail("addr", s.addr).WithCause(err)
	}
	s.mu.Lock()
	s.bound = listener.Addr().String()
	s.mu.Unlock()

	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(listener)
	}()
	s.logger.Info("health server started", "address", "http://"+s.Addr()+"/health")

	select {
	case err := <-served:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return ErrServerStart.WithDetail("addr", s.Addr()).WithCause(err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return ErrServerStop.WithCause(err)
	}
	s.logger.Info("health server stopped")
	return nil
}
