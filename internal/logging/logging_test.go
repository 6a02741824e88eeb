package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info when quiet", false, func(l *log.Logger) { l.Info("test") }, true},
		{"debug when quiet", false, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug when verbose", true, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(New(&buf, Level(tt.verbose)))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("Expected log output %v, got %v", tt.wantLog, got)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := New(&buf, log.InfoLevel)

	ctx := WithLogger(context.Background(), custom)
	if FromContext(ctx) != custom {
		t.Error("Expected the attached logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("Expected default logger when none is attached")
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(New(&buf, log.DebugLevel))
	p.Done("parsed document")

	if !bytes.Contains(buf.Bytes(), []byte("parsed document")) {
		t.Errorf("Expected progress message in output, got %q", buf.String())
	}
}

func TestOpenFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	f, err := OpenFile(dir)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	New(f, log.InfoLevel).Info("hello")

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !bytes.Contains(data, []byte("hello")) {
		t.Errorf("Expected log file to contain message, got %q", data)
	}
}
