package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/cache"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	res := cli.InitBackend(context.Background(), logger.Logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	tracker, err := services.NewTracker(context.Background(), res.Repository, res.Publisher())
	if err != nil {
		logger.Error("Failed to load tracker state", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, tracker, apphttp.Options{
		Currency:       cfg.Currency,
		ReportCacheTTL: cfg.ReportCacheTTL,
		Logger:         logger.WithComponent(applog.ComponentHTTP),
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	caches := cache.NewManager()
	caches.Register(srv.Reports())

	processor := services.NewRecurringProcessor(tracker)

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"events", res.Events != nil,
			"expenses", len(tracker.Snapshot().Expenses))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return caches.Run(gctx, time.Minute)
	})
	g.Go(func() error {
		return runRecurring(gctx, logger, processor, cfg.RecurringInterval)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

// runRecurring generates due recurring expenses on startup and then on
// every tick.
func runRecurring(ctx context.Context, logger *applog.Logger, p *services.RecurringProcessor, interval time.Duration) error {
	logger = logger.WithComponent(applog.ComponentRecurring)

	process := func(now time.Time) {
		count, err := p.ProcessDue(ctx, now)
		if err != nil {
			logger.ErrorContext(ctx, "Recurring processing failed", "error", err)
			return
		}
		if count > 0 {
			logger.InfoContext(ctx, "Recurring expenses created", applog.FieldCount, count)
		}
	}

	process(time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			process(now)
		}
	}
}
