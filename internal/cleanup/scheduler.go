// Package cleanup sweeps the scratch directory in the background. The
// pipeline removes its own files after every run; the sweeper is a
// safety net for removals that failed and were only logged.
package cleanup

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Scheduler periodically deletes scratch files past a maximum age.
type Scheduler struct {
	dir      string
	interval time.Duration
	maxAge   time.Duration
	log      *slog.Logger
	stop     chan struct{}
}

// NewScheduler creates a sweeper over dir.
func NewScheduler(dir string, interval, maxAge time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		dir:      dir,
		interval: interval,
		maxAge:   maxAge,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Start runs one sweep immediately and then sweeps on every interval
// until Stop is called.
func (s *Scheduler) Start() {
	s.sweep()

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()

	s.log.Info("scratch sweeper started", "interval", s.interval, "max_age", s.maxAge)
}

// Stop halts the periodic sweeps.
func (s *Scheduler) Stop() {
	close(s.stop)
}

// sweep removes files older than maxAge from the scratch directory.
func (s *Scheduler) sweep() {
	cutoff := time.Now().Add(-s.maxAge)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Warn("scratch sweep failed", "dir", s.dir, "error", err)
		return
	}

	var removed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.log.Warn("failed to remove stale scratch file", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.Info("removed stale scratch files", "count", removed)
	}
}
