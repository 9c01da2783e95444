package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/cli"
	"fintrack/internal/export"
	applog "fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)

	logger.Info("Starting fintrack-backup",
		"backup_dir", cfg.BackupDir,
		"keep", cfg.BackupKeep,
		"interval", cfg.BackupInterval)

	res := cli.InitBackend(context.Background(), logger.Logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		logger.Error("Failed to create backup directory", "error", err, "path", cfg.BackupDir)
		os.Exit(1)
	}
	backups := worker.NewBackupWorker(res.Repository, export.NewBackupWriter(cfg.BackupDir, cfg.BackupKeep))

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)

	// The timer is the fallback for messages lost while the worker was down.
	g.Go(func() error {
		return backups.RunPeriodic(gctx, cfg.BackupInterval)
	})

	if res.Events != nil {
		g.Go(func() error {
			err := res.Events.ConsumeWithReconnect(gctx, backups.HandleChangeMessage)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("Skipping AMQP message consumption - change events disabled")
	}

	if err := g.Wait(); err != nil {
		logger.Error("Backup worker failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Backup worker shutdown complete")
}
