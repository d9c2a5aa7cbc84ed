// Package lockfile guards archival runs with an advisory file lock.
// Only processes that check the lock are excluded; the lock file itself
// persists across runs, only the held state is transient.
package lockfile

import (
	"fmt"

	"github.com/gofrs/flock"
)

// Guard wraps a non-blocking advisory lock on a fixed path.
type Guard struct {
	fl *flock.Flock
}

func New(path string) *Guard {
	return &Guard{fl: flock.New(path)}
}

// TryAcquire attempts to take the lock without blocking.
// held == false with a nil error means another process owns it,
// which is an expected condition rather than a failure.
func (g *Guard) TryAcquire() (held bool, err error) {
	ok, err := g.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquiring lock %s: %w", g.fl.Path(), err)
	}
	return ok, nil
}

// Release drops the lock. Safe to call when not held; the OS also
// releases it automatically when the process exits.
func (g *Guard) Release() {
	_ = g.fl.Unlock()
}

// Path returns the lock file path.
func (g *Guard) Path() string {
	return g.fl.Path()
}
