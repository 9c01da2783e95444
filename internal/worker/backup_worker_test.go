package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/storage"
)

func newTestWorker(t *testing.T) (*BackupWorker, *storage.Repository, *export.BackupWriter) {
	t.Helper()
	repo := storage.NewRepository(storage.NewMemoryStore())
	writer := export.NewBackupWriter(filepath.Join(t.TempDir(), "backups"), 10)
	w := NewBackupWorker(repo, writer)
	return w, repo, writer
}

func TestBackupWorker_SkipsUnchangedData(t *testing.T) {
	ctx := context.Background()
	w, repo, writer := newTestWorker(t)

	if _, wrote, err := w.Backup(ctx); err != nil || !wrote {
		t.Fatalf("first Backup() = %v, %v", wrote, err)
	}
	if _, wrote, err := w.Backup(ctx); err != nil || wrote {
		t.Fatalf("unchanged Backup() = %v, %v", wrote, err)
	}

	exp := []core.Expense{{ID: "e1", Amount: decimal.NewFromInt(5), Category: core.Food, Date: core.NewDate(2024, 1, 1)}}
	if err := repo.SaveExpenses(ctx, exp); err != nil {
		t.Fatal(err)
	}
	path, wrote, err := w.Backup(ctx)
	if err != nil || !wrote {
		t.Fatalf("Backup() after change = %v, %v", wrote, err)
	}
	if filepath.Dir(path) != writer.Dir {
		t.Errorf("backup written to %s", path)
	}
}

func TestBackupWorker_HandleChangeMessage(t *testing.T) {
	ctx := context.Background()
	w, repo, _ := newTestWorker(t)
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	w.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	tests := []struct {
		collection string
		wantWrite  bool
	}{
		{"budgets", false},
		{"settings", false},
		{"expenses", true},
		{"investments", false}, // nothing changed since the expenses backup
	}

	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			before := w.lastData
			if tt.collection == "expenses" {
				exp := []core.Expense{{ID: "e1", Amount: decimal.NewFromInt(1), Category: core.Food, Date: core.NewDate(2024, 5, 1)}}
				if err := repo.SaveExpenses(ctx, exp); err != nil {
					t.Fatal(err)
				}
			}
			if err := w.HandleChangeMessage(ctx, amqp.NewChangeMessage(tt.collection, "update", "", 1, 1)); err != nil {
				t.Fatalf("HandleChangeMessage() error = %v", err)
			}
			changed := string(before) != string(w.lastData)
			if changed != tt.wantWrite {
				t.Errorf("backup written = %v, want %v", changed, tt.wantWrite)
			}
		})
	}
}

func TestBackupWorker_RunPeriodicStops(t *testing.T) {
	w, _, writer := newTestWorker(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.RunPeriodic(ctx, time.Hour) }()

	deadline := time.After(2 * time.Second)
	for {
		names, _ := writer.List()
		if len(names) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("startup backup was not written")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunPeriodic() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunPeriodic did not stop")
	}
}
