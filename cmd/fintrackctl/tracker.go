package main

import (
	"context"
	"fmt"
	"os"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

// session is an open backend and the tracker loaded from it.
type session struct {
	cfg     *config.Config
	logger  *applog.Logger
	tracker *services.Tracker
	close   func() error
}

// openSession loads the configuration from the environment and opens the
// configured backend. Logs go to stderr so exports can be piped.
func openSession(ctx context.Context) (*session, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: applog.ComponentCLI,
		Output:    os.Stderr,
	})
	applog.SetDefault(logger)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	tracker, err := services.NewTracker(ctx, res.Repository, res.Publisher())
	if err != nil {
		_ = res.Cleanup()
		return nil, fmt.Errorf("load tracker: %w", err)
	}
	return &session{cfg: cfg, logger: logger, tracker: tracker, close: res.Cleanup}, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		s.logger.Error("Backend cleanup failed", "error", err)
	}
}
