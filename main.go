package main

import (
	"context"
	"errors"

	"MathBoard/internal/config"
	"MathBoard/internal/logger"
	"MathBoard/internal/net"
	"MathBoard/internal/raster"
	"MathBoard/internal/render"
	"MathBoard/internal/session"
	"MathBoard/internal/ui"

	"fyne.io/fyne/v2"
	"go.uber.org/zap"
)

const windowTitle = "MathBoard"

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.FilePath, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	typesetter := render.NewTypesetter(log)
	typesetter.Start()

	client := net.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, log)
	surface := raster.NewSurface(cfg.App.WindowWidth, cfg.App.WindowHeight)
	sess := session.New(surface, client, session.Options{
		Stagger:         cfg.Board.ResultStagger,
		ShowAssignments: cfg.Board.ShowAssignments,
	}, log)
	screen := ui.NewScreen(surface, sess, typesetter, log)

	log.Info("starting",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Duration("stagger", cfg.Board.ResultStagger),
		zap.Bool("show_assignments", cfg.Board.ShowAssignments))

	onStarted := func() {
		if client.BaseURL() != "" {
			screen.SetStatus("Ready: " + client.BaseURL())
			return
		}
		screen.SetStatus("Looking for a recognition backend...")
		go discoverBackend(cfg, client, screen, log)
	}
	ui.RunApp(windowTitle, cfg.App.WindowWidth, cfg.App.WindowHeight, screen, onStarted)
}

func discoverBackend(cfg *config.Config, client *net.Client, screen *ui.Screen, log *zap.Logger) {
	u, err := net.Discover(context.Background(), cfg.Backend.DiscoveryTimeout, log)
	if err != nil {
		if !errors.Is(err, net.ErrNoBackendFound) {
			log.Warn("backend discovery failed", zap.Error(err))
		}
		fyne.Do(func() { screen.SetStatus("No backend configured. Set MATHBOARD_API_URL.") })
		return
	}
	client.SetBaseURL(u)
	fyne.Do(func() { screen.SetStatus("Ready: " + u) })
}
