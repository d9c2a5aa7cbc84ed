package lockfile

import (
	"path/filepath"
	"testing"
)

func TestTryAcquireExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.lock")

	first := New(path)
	held, err := first.TryAcquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !held {
		t.Fatalf("first holder must acquire the lock")
	}

	// A second guard on the same path simulates a concurrent run.
	second := New(path)
	held, err = second.TryAcquire()
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if held {
		t.Fatalf("second holder must be excluded while the lock is held")
	}

	first.Release()

	held, err = second.TryAcquire()
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	if !held {
		t.Fatalf("lock must be acquirable after release")
	}
	second.Release()
}

func TestReleaseWithoutHoldIsSafe(t *testing.T) {
	g := New(filepath.Join(t.TempDir(), "backup.lock"))
	g.Release() // must not panic
	g.Release()
}

func TestLockFilePersistsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.lock")

	g := New(path)
	if held, err := g.TryAcquire(); err != nil || !held {
		t.Fatalf("acquire: held=%v err=%v", held, err)
	}
	g.Release()

	// Only the held state is transient; the file itself stays.
	if g.Path() != path {
		t.Fatalf("path mismatch: %q", g.Path())
	}
}
