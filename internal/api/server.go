package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heimdex/heimdex-editor/internal/events"
	"github.com/heimdex/heimdex-editor/internal/export"
	"github.com/heimdex/heimdex-editor/internal/library"
	"github.com/heimdex/heimdex-editor/internal/store"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

// Player is the playback surface the API drives.
type Player interface {
	Start(ctx context.Context) bool
	Stop() bool
	Toggle(ctx context.Context) bool
	IsPlaying() bool
}

// Exporter queues exports for background rendering.
type Exporter interface {
	Enqueue(ctx context.Context, req export.Request, clips []timeline.Clip) (*store.Export, error)
	IsPaused() bool
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port       int
	Model      *timeline.Model
	Catalog    *library.Catalog
	Player     Player
	Exporter   Exporter
	Repository store.Repository
	Hub        *events.Hub
	Logger     *slog.Logger
	StartTime  time.Time
	DeviceID   string

	// BaseContext outlives individual requests; playback started over HTTP
	// runs under it.
	BaseContext context.Context
}

func (cfg ServerConfig) baseContext() context.Context {
	if cfg.BaseContext != nil {
		return cfg.BaseContext
	}
	return context.Background()
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
