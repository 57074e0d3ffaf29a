// Package api exposes the supervisor over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	supervisorx "supervisor-agent/agent/supervisor"
)

type Config struct {
	Host            string        `default:"0.0.0.0"`
	Port            int           `default:"8000"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// Server routes HTTP traffic to a Supervisor.
type Server struct {
	cfg        Config
	supervisor *supervisorx.Supervisor
	engine     *gin.Engine
}

func NewServer(cfg Config, supervisor *supervisorx.Supervisor) (*Server, error) {
	if supervisor == nil {
		return nil, errors.New("supervisor is required")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:        cfg,
		supervisor: supervisor,
		engine:     engine,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.Health)

	// The bare paths and the /api prefix serve the same JSON contract.
	for _, group := range []*gin.RouterGroup{
		s.engine.Group("/"),
		s.engine.Group("/api"),
	} {
		group.GET("/agents", s.ListAgents)
		group.POST("/query", s.HandleQuery)
	}
}

// Handler exposes the router for tests and custom server setups.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	log.Info().Msg("http server stopped")
	return <-errCh
}
