package server

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/marquee-led/marquee/internal/config"
	apperrors "github.com/marquee-led/marquee/internal/errors"
	"github.com/marquee-led/marquee/internal/scheduler"
	"github.com/marquee-led/marquee/internal/settings"
	"github.com/marquee-led/marquee/internal/stream"
)

// Server exposes the control API: health and metrics endpoints, the settings
// API, and the browser display simulator with its frame stream.
type Server struct {
	echo            *echo.Echo
	config          *config.Config
	sched           *scheduler.Scheduler
	store           *settings.Store
	hub             *stream.Hub
	logger          *slog.Logger
	displayTemplate *template.Template
	startTime       time.Time
}

func NewServer(cfg *config.Config, sched *scheduler.Scheduler, store *settings.Store, hub *stream.Hub, logger *slog.Logger) (*Server, error) {
	displayTmpl, err := template.ParseFiles("web/templates/display.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse display template: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:            e,
		config:          cfg,
		sched:           sched,
		store:           store,
		hub:             hub,
		logger:          logger,
		displayTemplate: displayTmpl,
		startTime:       time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	s.logger.Info("starting control server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
