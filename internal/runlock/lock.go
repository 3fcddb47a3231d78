// Package runlock guards against two curation runs mutating the same project
// at once. Each non-dry-run acquires an advisory file lock named after the
// project before any remote write is issued.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofrs/flock"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Lock is a held per-project curation lock.
type Lock struct {
	path string
	fl   *flock.Flock
}

// Acquire takes the lock for a project, failing immediately when another run
// holds it.
func Acquire(dir, projectLabel string) (*Lock, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("lock directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	path := filepath.Join(dir, lockName(projectLabel))
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire curation lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("project %q is being curated by another run (lock %s)", projectLabel, path)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

func lockName(projectLabel string) string {
	cleaned := unsafeChars.ReplaceAllString(strings.TrimSpace(projectLabel), "-")
	if cleaned == "" {
		cleaned = "project"
	}
	return cleaned + ".lock"
}
