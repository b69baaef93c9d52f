package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/eventvms/vms/internal/config"
	"github.com/eventvms/vms/internal/mailer"
	"github.com/eventvms/vms/internal/qr"
	"github.com/eventvms/vms/internal/server"
	"github.com/eventvms/vms/internal/service"
	"github.com/eventvms/vms/internal/storage"
	"github.com/eventvms/vms/internal/storage/snapshot"
	"github.com/eventvms/vms/internal/storage/sqlite"
	"github.com/eventvms/vms/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := snapshot.New(filepath.Join(cfg.DataDir, "db.json"))
	if err != nil {
		slog.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("snapshot store ready", "data_dir", cfg.DataDir)

	// The mirror is best-effort: if it cannot be opened the service
	// runs without it rather than refusing to start.
	var mirror storage.Mirror
	if cfg.MirrorDBPath != "" {
		m, err := sqlite.New(cfg.MirrorDBPath)
		if err != nil {
			slog.Error("mirror sink unavailable, continuing without it", "path", cfg.MirrorDBPath, "error", err)
		} else {
			defer m.Close()
			mirror = m
			slog.Info("mirror sink connected", "path", cfg.MirrorDBPath)
		}
	} else {
		slog.Info("mirror sink not configured, skipping")
	}

	gen, err := qr.NewGenerator(cfg.PublicDir)
	if err != nil {
		slog.Error("failed to prepare QR directory", "error", err)
		os.Exit(1)
	}

	smtp := mailer.New(cfg.SMTP)

	srv := server.NewServer(server.Dependencies{
		Addr:      fmt.Sprintf(":%d", cfg.Port),
		PublicDir: cfg.PublicDir,
		Registration: service.NewRegistrationService(
			store, mirror, smtp, gen, cfg.Event, cfg.AppBaseURL, cfg.SMTP.VerifyTimeout,
		),
		Checkin: service.NewCheckinService(store, mirror),
		Reports: service.NewReportService(store),
	})

	slog.Info("server starting", "url", cfg.AppBaseURL)
	if err := srv.Start(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
