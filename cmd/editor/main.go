package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/heimdex/heimdex-editor/internal/api"
	"github.com/heimdex/heimdex-editor/internal/config"
	"github.com/heimdex/heimdex-editor/internal/db"
	"github.com/heimdex/heimdex-editor/internal/events"
	"github.com/heimdex/heimdex-editor/internal/export"
	"github.com/heimdex/heimdex-editor/internal/library"
	"github.com/heimdex/heimdex-editor/internal/logging"
	"github.com/heimdex/heimdex-editor/internal/playback"
	"github.com/heimdex/heimdex-editor/internal/store"
	"github.com/heimdex/heimdex-editor/internal/timeline"
	"github.com/heimdex/heimdex-editor/internal/ui"
	"github.com/heimdex/heimdex-editor/internal/watcher"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run(cfg *config.EnvConfig) error {
	startTime := time.Now()

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting heimdex editor", "version", config.Version, "data_dir", logging.SanitizePath(cfg.DataDir()))

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := store.NewRepository(database.Conn())

	deviceID, err := ensureDeviceID(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure device ID: %w", err)
	}

	authToken, err := ensureAuthToken(repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                  HEIMDEX EDITOR v%-24s ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Device ID:  %-45s ║\n", deviceID[:16]+"...")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog, err := loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	if path := cfg.LibraryPath(); path != "" {
		fw := watcher.NewFileWatcher(logging.WithComponent(logger, "watcher"))
		fw.OnChange(watcher.LibraryReloader(catalog, logger, nil))
		if err := fw.Watch(ctx, path); err != nil {
			logger.Warn("library watch unavailable, catalog will not reload", "path", path, "error", err)
		} else {
			defer fw.Stop()
		}
	}

	model := timeline.NewModel(
		timeline.WithSnap(cfg.Snap()),
		timeline.WithZoom(cfg.Zoom()),
		timeline.WithLogger(logging.WithComponent(logger, "timeline")),
	)
	if cfg.SeedTimeline() {
		for i := 0; i < 2; i++ {
			if rec, ok := catalog.Get(i); ok {
				model.AppendClip(rec)
			}
		}
		model.SetStatus("Ready")
	}

	hub := events.NewHub(logging.WithComponent(logger, "events"))
	defer hub.Close()

	driver := playback.NewDriver(playback.DriverConfig{
		Model:     model,
		Publisher: hub,
		Logger:    logging.WithComponent(logger, "playback"),
	})

	runner := export.NewRunner(repo, hub, logging.WithComponent(logger, "export"), cfg.ExportPollInterval())
	go runner.Start(ctx)

	var tray *ui.Tray
	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	if !cfg.Headless() {
		tray = ui.NewTray(ui.TrayConfig{
			Context:  ctx,
			Model:    model,
			Player:   driver,
			Exporter: runner,
			Logger:   logging.WithComponent(logger, "tray"),
			OnQuit:   quit,
		})
	}

	model.OnChange(func(snap timeline.Snapshot) {
		if err := hub.Publish(events.TypeTimeline, snap); err != nil {
			logger.Debug("failed to publish timeline event", "error", err)
		}
		if tray != nil {
			tray.Update(snap)
		}
	})

	apiServer := api.NewServer(api.ServerConfig{
		Port:        cfg.Port(),
		Model:       model,
		Catalog:     catalog,
		Player:      driver,
		Exporter:    runner,
		Repository:  repo,
		Hub:         hub,
		Logger:      logger,
		StartTime:   startTime,
		DeviceID:    deviceID,
		BaseContext: ctx,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
			quit()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			quit()
		case <-quitCh:
		}
	}()

	if tray == nil {
		logger.Info("running in headless mode (no system tray)")
	} else {
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	driver.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}
	if tray != nil {
		tray.Quit()
	}

	logger.Info("shutdown complete")
	return nil
}

// loadCatalog reads the configured YAML library or falls back to the
// built-in records.
func loadCatalog(cfg config.Config, logger *slog.Logger) (*library.Catalog, error) {
	path := cfg.LibraryPath()
	if path == "" {
		return library.NewCatalog(library.Default()), nil
	}
	records, err := library.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	logger.Info("library loaded", "path", logging.SanitizePath(path), "records", len(records))
	return library.NewCatalog(records), nil
}

func ensureDeviceID(repo store.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, store.ConfigKeyDeviceID)
	if err == nil && existing != "" {
		return existing, nil
	}

	deviceID := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := repo.SetConfig(ctx, store.ConfigKeyDeviceID, deviceID); err != nil {
		return "", err
	}

	return deviceID, nil
}

func ensureAuthToken(repo store.Repository) (string, error) {
	ctx := context.Background()

	existing, err := repo.GetConfig(ctx, store.ConfigKeyAuthToken)
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := repo.SetConfig(ctx, store.ConfigKeyAuthToken, token); err != nil {
		return "", err
	}

	return token, nil
}
