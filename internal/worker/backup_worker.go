// Package worker holds the background jobs that run beside the API server.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/export"
	"fintrack/internal/storage"
)

// BackupWorker writes JSON backups of the stored expenses and investments.
// It reacts to change messages and also runs on a timer as a fallback for
// lost messages. A backup is skipped when the data is unchanged since the
// last one written.
type BackupWorker struct {
	repo   *storage.Repository
	writer *export.BackupWriter

	mu       sync.Mutex
	lastData []byte

	now func() time.Time
}

func NewBackupWorker(repo *storage.Repository, writer *export.BackupWriter) *BackupWorker {
	return &BackupWorker{repo: repo, writer: writer, now: time.Now}
}

// HandleChangeMessage is the AMQP handler. Budget and settings changes do
// not affect the backup contents and are acknowledged without work.
func (w *BackupWorker) HandleChangeMessage(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"collection", msg.Collection,
		"operation", msg.Operation,
		"version", msg.Version)

	switch msg.Collection {
	case "budgets", "settings":
		return nil
	}

	if _, _, err := w.Backup(ctx); err != nil {
		return fmt.Errorf("backup after %s change: %w", msg.Collection, err)
	}
	return nil
}

// Backup snapshots the repository and writes a backup file when the data
// changed. It returns the file path and whether a file was written.
func (w *BackupWorker) Backup(ctx context.Context) (string, bool, error) {
	expenses, err := w.repo.LoadExpenses(ctx)
	if err != nil {
		return "", false, fmt.Errorf("load expenses: %w", err)
	}
	investments, err := w.repo.LoadInvestments(ctx)
	if err != nil {
		return "", false, fmt.Errorf("load investments: %w", err)
	}

	b := export.NewBackup(expenses, investments, w.now())
	fingerprint, err := json.Marshal(struct {
		E any `json:"e"`
		I any `json:"i"`
	}{b.Expenses, b.Investments})
	if err != nil {
		return "", false, fmt.Errorf("encode snapshot: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastData != nil && bytes.Equal(w.lastData, fingerprint) {
		slog.DebugContext(ctx, "Data unchanged, skipping backup")
		return "", false, nil
	}

	path, err := w.writer.Write(b)
	if err != nil {
		return "", false, err
	}
	w.lastData = fingerprint

	slog.InfoContext(ctx, "Backup written",
		"path", path,
		"expenses", len(expenses),
		"investments", len(investments))
	return path, true, nil
}

// RunPeriodic writes a backup immediately and then every interval until ctx
// is cancelled. Failures are logged and retried on the next tick.
func (w *BackupWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if _, _, err := w.Backup(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup backup failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, _, err := w.Backup(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic backup failed", "error", err)
			}
		}
	}
}
