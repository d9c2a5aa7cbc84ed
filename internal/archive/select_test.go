package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeWithMTime(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return path
}

func TestSelectAgeBoundary(t *testing.T) {
	dir := t.TempDir()
	cutoff := time.Now().Add(-7 * 24 * time.Hour).Truncate(time.Second)

	writeWithMTime(t, dir, "exactly.log", cutoff)                    // not eligible
	writeWithMTime(t, dir, "older.log", cutoff.Add(-time.Second))    // eligible
	writeWithMTime(t, dir, "newer.log", cutoff.Add(time.Second))     // not eligible
	writeWithMTime(t, dir, "ancient.log", cutoff.Add(-23*time.Hour)) // eligible

	got, err := Select(dir, cutoff)
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	eligible := map[string]bool{}
	for _, e := range got {
		eligible[e.Rel] = true
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 eligible files, got %d: %v", len(got), eligible)
	}
	if !eligible["older.log"] || !eligible["ancient.log"] {
		t.Fatalf("wrong selection: %v", eligible)
	}
	if eligible["exactly.log"] {
		t.Fatalf("file exactly at the cutoff must be excluded")
	}
}

func TestSelectWalksNestedDirs(t *testing.T) {
	dir := t.TempDir()
	cutoff := time.Now()
	old := cutoff.Add(-time.Hour)

	writeWithMTime(t, dir, filepath.Join("jobs", "build", "console.log"), old)
	writeWithMTime(t, dir, "top.log", old)

	got, err := Select(dir, cutoff)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected nested files found, got %v", got)
	}
	for _, e := range got {
		if e.Rel != "top.log" && e.Rel != filepath.Join("jobs", "build", "console.log") {
			t.Fatalf("unexpected rel path %q", e.Rel)
		}
	}
}

func TestSelectMissingDirFails(t *testing.T) {
	if _, err := Select(filepath.Join(t.TempDir(), "nope"), time.Now()); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}
