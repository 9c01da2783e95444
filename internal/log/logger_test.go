package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewJSONFormatAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentStorage, Output: &buf})

	logger.Info("saved", FieldCollection, "expenses")
	logger.Debug("hidden")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not one JSON record: %v: %s", err, buf.String())
	}
	if rec[FieldComponent] != ComponentStorage || rec[FieldCollection] != "expenses" {
		t.Errorf("record = %v", rec)
	}
}

func TestWithComponentDoesNotDuplicate(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "text", Component: ComponentApp, Output: &buf})

	logger.WithComponent(ComponentHTTP).Info("hello")
	out := buf.String()
	if strings.Count(out, "component=") != 1 || !strings.Contains(out, "component=http") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFromContext(t *testing.T) {
	if l := FromContext(context.Background()); l.Component() != "unknown" {
		t.Errorf("fallback component = %q", l.Component())
	}

	logger := New(DefaultConfig())
	var seen *Logger
	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != logger {
		t.Error("middleware did not install the logger")
	}
}

func TestLogHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{500, "ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := New(Config{Level: slog.LevelDebug, Output: &buf})
		ctx := context.WithValue(context.Background(), LoggerContextKey, logger)
		r := httptest.NewRequest(http.MethodGet, "/api/expenses?sort=amount", nil)

		NewStructuredLogger(logger).LogHTTPEnd(ctx, r, tt.status, 3, "127.0.0.1")

		out := buf.String()
		if !strings.Contains(out, "level="+tt.level) || !strings.Contains(out, "path=/api/expenses") {
			t.Errorf("status %d: %q", tt.status, out)
		}
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})
	NewStructuredLogger(logger).LogError(context.Background(), "save failed", errors.New("disk full"), ComponentStorage, OpUpdate, nil)

	out := buf.String()
	for _, want := range []string{"level=ERROR", "error=\"disk full\"", "operation=update", "component=storage"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %q", want, out)
		}
	}
}

func TestLogExpenseChanged(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})
	NewStructuredLogger(logger).LogExpenseChanged(context.Background(), "create", "e1", "Food", "12.5", "2024-03-01", 4)

	out := buf.String()
	for _, want := range []string{"collection=expenses", "record_id=e1", "category=Food", "amount=12.5", "date=2024-03-01", "operation=create", "version=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %q", want, out)
		}
	}
}
