// Package scratch manages the directory that holds uploaded and derived
// media files for the duration of a single pipeline run. The store keeps
// no registry of outstanding files; the pipeline that created a file is
// responsible for removing it.
package scratch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mediascribe/mediascribe/internal/fault"
)

// Store writes and removes transient files under a single directory.
type Store struct {
	dir string
	log *slog.Logger
}

// New ensures dir exists and returns a store over it.
func New(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fault.Wrap(fault.Storage, "create scratch directory "+dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the scratch directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Write stores data under a name unique within the process, derived from
// the current timestamp and the suggested name so that concurrent
// requests never collide on a path.
func (s *Store) Write(suggestedName string, data []byte) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeName(suggestedName))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fault.Wrap(fault.Storage, "write scratch file "+path, err)
	}
	return path, nil
}

// Read loads a scratch file fully into memory.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(fault.Storage, "read scratch file "+path, err)
	}
	return data, nil
}

// Remove deletes a scratch file. Removal is best-effort: a failure is
// logged and never surfaced, since a leaked scratch file degrades
// cleanliness, not correctness.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to remove scratch file", "path", path, "error", err)
	}
}

// sanitizeName strips path separators and caps the length so client
// supplied names cannot escape the scratch directory.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "." || name == "" {
		name = "upload"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}
