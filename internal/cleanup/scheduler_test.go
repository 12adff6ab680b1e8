package cleanup

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweepRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "stale.mp3")
	if err := os.WriteFile(stale, []byte("x"), 0o644); err != nil {
		t.Fatalf("write stale file: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("age stale file: %v", err)
	}

	fresh := filepath.Join(dir, "fresh.mp3")
	if err := os.WriteFile(fresh, []byte("x"), 0o644); err != nil {
		t.Fatalf("write fresh file: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewScheduler(dir, time.Minute, time.Hour, log)
	s.sweep()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived the sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file removed by the sweep: %v", err)
	}
}

func TestSweepMissingDir(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewScheduler(filepath.Join(t.TempDir(), "gone"), time.Minute, time.Hour, log)

	// Must not panic.
	s.sweep()
}
