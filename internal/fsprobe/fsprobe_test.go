package fsprobe

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProbeMissingDir(t *testing.T) {
	res := Probe(filepath.Join(t.TempDir(), "nope"))
	if res.FsnotifySupported {
		t.Fatalf("missing dir cannot support fsnotify")
	}
	if res.Reason == "" {
		t.Fatalf("unsupported result must carry a reason")
	}
}

func TestProbeRejectsRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res := Probe(path)
	if res.FsnotifySupported {
		t.Fatalf("a regular file is not watchable")
	}
	if res.Reason != "not a directory" {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
}

func TestProbeCleansUpAfterItself(t *testing.T) {
	dir := t.TempDir()
	Probe(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("probe left files behind: %v", entries)
	}
}
