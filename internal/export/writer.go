package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupPrefix = "expense-tracker-backup_"

// BackupWriter writes backup files into a directory and keeps only the
// newest Keep of them.
type BackupWriter struct {
	Dir  string
	Keep int

	now func() time.Time
}

func NewBackupWriter(dir string, keep int) *BackupWriter {
	return &BackupWriter{Dir: dir, Keep: keep, now: time.Now}
}

// Write stores b under a timestamped name and returns its path. The file is
// written to a temporary name first and renamed into place.
func (w *BackupWriter) Write(b Backup) (string, error) {
	data, err := b.JSON()
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	path := filepath.Join(w.Dir, BackupFileName(w.now()))
	tmp, err := os.CreateTemp(w.Dir, ".backup-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename backup: %w", err)
	}

	if _, err := w.Prune(); err != nil {
		slog.Warn("Failed to prune old backups", "dir", w.Dir, "error", err)
	}
	return path, nil
}

// Prune removes all but the newest Keep backups and returns how many were
// removed. Keep <= 0 keeps everything.
func (w *BackupWriter) Prune() (int, error) {
	if w.Keep <= 0 {
		return 0, nil
	}
	names, err := w.List()
	if err != nil {
		return 0, err
	}
	if len(names) <= w.Keep {
		return 0, nil
	}

	removed := 0
	for _, name := range names[:len(names)-w.Keep] {
		if err := os.Remove(filepath.Join(w.Dir, name)); err != nil {
			return removed, fmt.Errorf("remove %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// List returns the backup file names oldest first.
func (w *BackupWriter) List() ([]string, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), backupPrefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	// timestamped names sort chronologically
	sort.Strings(names)
	return names, nil
}
