package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/skillsenselab/data2csv/internal/logger"
	"github.com/skillsenselab/data2csv/internal/server/middleware"
)

// Server wraps a gin engine with lifecycle management. The listener is bound
// synchronously in Start so that bind failures (port in use, permission
// denied) surface immediately to the caller instead of a background goroutine.
type Server struct {
	cfg    Config
	engine *gin.Engine
	http   *http.Server
	log    *logger.Logger

	mu       sync.Mutex
	listener net.Listener
	serveErr chan error
	started  bool
}

// New creates a server with the standard middleware chain installed.
func New(cfg Config, log *logger.Logger) *Server {
	cfg.ApplyDefaults()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logging(log),
	)

	return &Server{
		cfg:    cfg,
		engine: engine,
		log:    log.WithComponent("server"),
	}
}

// Engine exposes the underlying gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the actual listen address. Only meaningful after Start; when
// the configured port is 0 this reports the ephemeral port the kernel chose.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Start binds the listener and begins serving. It returns an error if the
// address cannot be bound; serve errors after a successful bind are reported
// through ServeErr.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("server already started")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	h2s := &http2.Server{}
	s.http = &http.Server{
		Handler:      h2c.NewHandler(s.engine, h2s),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeout) * time.Second,
	}

	s.listener = listener
	s.serveErr = make(chan error, 1)
	s.started = true

	s.log.Info("server listening", map[string]interface{}{
		"address": listener.Addr().String(),
	})

	go func() {
		if err := s.http.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.serveErr <- err
		}
		close(s.serveErr)
	}()

	return nil
}

// ServeErr returns a channel that receives a serve-loop error, if any, after
// a successful Start. The channel is closed when the serve loop exits.
func (s *Server) ServeErr() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// Stop gracefully shuts down the server, waiting up to 5 seconds for
// in-flight requests to complete.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.log.Info("server shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}
