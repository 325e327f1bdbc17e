package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aurixon/api/internal/logger"
	"github.com/google/uuid"
)

// ArtifactPrefix starts the name of every file in the scratch directory.
const ArtifactPrefix = "emissions_report_"

// Scratch is the directory report artifacts are written to before
// delivery. Every artifact gets a unique name, so concurrent reports never
// collide, and each is removed independently.
type Scratch struct {
	dir string
	log *logger.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// NewScratch creates dir if needed and returns a Scratch rooted there.
func NewScratch(dir string, log *logger.Logger) (*Scratch, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create exports directory %s: %w", dir, err)
	}
	return &Scratch{
		dir:     dir,
		log:     log,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Dir returns the scratch directory.
func (s *Scratch) Dir() string {
	return s.dir
}

// Write creates a uniquely named artifact for the period and fills it with
// render. On failure the file is removed and no path is returned.
func (s *Scratch) Write(periodID uuid.UUID, f Format, render func(io.Writer) error) (string, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return "", errors.New("scratch directory is closed")
	}

	pattern := fmt.Sprintf("%s%s_*.%s", ArtifactPrefix, periodID, f.Extension())
	file, err := os.CreateTemp(s.dir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact: %w", err)
	}
	path := file.Name()

	if err := render(file); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}
	return path, nil
}

// Remove deletes an artifact now and cancels any scheduled removal.
// Removing a missing file is not an error.
func (s *Scratch) Remove(path string) error {
	s.mu.Lock()
	if t, ok := s.pending[path]; ok {
		t.Stop()
		delete(s.pending, path)
	}
	s.mu.Unlock()
	return removeQuiet(path)
}

// RemoveAfter schedules removal of an artifact once delay has passed.
func (s *Scratch) RemoveAfter(path string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		_ = removeQuiet(path)
		return
	}
	if t, ok := s.pending[path]; ok {
		t.Stop()
	}
	s.pending[path] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.pending, path)
		s.mu.Unlock()

		if err := removeQuiet(path); err != nil {
			s.log.Warn("Failed to remove report artifact", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	})
}

// Pending returns the number of artifacts waiting for scheduled removal.
func (s *Scratch) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close cancels every scheduled removal and deletes those artifacts now.
func (s *Scratch) Close() error {
	s.mu.Lock()
	s.closed = true
	paths := make([]string, 0, len(s.pending))
	for path, t := range s.pending {
		t.Stop()
		paths = append(paths, path)
	}
	s.pending = make(map[string]*time.Timer)
	s.mu.Unlock()

	var errs []error
	for _, path := range paths {
		if err := removeQuiet(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Sweep removes artifacts last modified more than maxAge ago. Files not
// named like artifacts are left alone. It returns how many were removed.
func (s *Scratch) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list exports directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), ArtifactPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := s.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}

	s.log.Info("Swept report artifacts", map[string]interface{}{
		"dir":     s.dir,
		"removed": removed,
		"max_age": maxAge.String(),
	})
	return removed, nil
}

func removeQuiet(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
