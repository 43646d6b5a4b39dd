package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/marquee-led/marquee/internal/config"
	"github.com/marquee-led/marquee/internal/logging"
	"github.com/marquee-led/marquee/internal/parser"
	"github.com/marquee-led/marquee/internal/render"
	"github.com/marquee-led/marquee/internal/scheduler"
	"github.com/marquee-led/marquee/internal/scroll"
	"github.com/marquee-led/marquee/internal/server"
	"github.com/marquee-led/marquee/internal/settings"
	"github.com/marquee-led/marquee/internal/source"
	"github.com/marquee-led/marquee/internal/stream"
	"github.com/marquee-led/marquee/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupSource(cfg *config.Config) source.Source {
	registry := parser.NewRegistry()
	parser.RegisterBuiltins(registry)

	descriptor := source.Descriptor{
		Text:   cfg.Text,
		URL:    cfg.URL,
		Parser: cfg.Parser,
	}
	if cfg.JSONPath != "" {
		descriptor.ParserOptions = parser.Options{"path": cfg.JSONPath}
	}

	src, err := source.New(descriptor, registry)
	if err != nil {
		logging.WithError(err).Error("Invalid source configuration")
		os.Exit(1)
	}
	return src
}

func setupSurface(cfg *config.Config, hub *stream.Hub) render.Surface {
	var surface render.Surface
	switch cfg.DisplayMode {
	case config.DisplayTerminal:
		surface = render.NewTerminal(cfg.DisplayWidth, cfg.DisplayHeight, os.Stdout)
	default:
		surface = render.NewFramebuffer(cfg.DisplayWidth, cfg.DisplayHeight)
	}
	// tee every presented frame to stream viewers
	return render.NewBroadcast(surface, hub)
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "version", version.Version, "port", cfg.Port, "display", cfg.DisplayMode)

	src := setupSource(cfg)
	store := settings.NewStore(cfg.InitialSettings())

	hub := stream.NewHub(slog.Default())
	surface := setupSurface(cfg, hub)

	engine := scroll.NewEngine(store, clock, cfg.DisplayWidth)
	sched := scheduler.New(src, engine, surface, store, clock, logging.WithSource(src.Name()), scheduler.Options{
		TickInterval: cfg.TickInterval,
		FetchTimeout: cfg.FetchTimeout,
	})

	srv, err := server.NewServer(cfg, sched, store, hub, slog.Default())
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan error, 1)
	go func() { loopDone <- sched.Run(loopCtx) }()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var loopErr error
	select {
	case <-sigChan:
		slog.Info("Shutdown signal received, cleaning up...")
		stopLoop()
		select {
		case loopErr = <-loopDone:
		case <-time.After(time.Second):
		}
	case loopErr = <-loopDone:
		stopLoop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	hub.Stop()

	if loopErr != nil {
		slog.Error("Main loop failed", "error", loopErr)
		os.Exit(1)
	}
}
