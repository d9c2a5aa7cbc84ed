package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ciprianb/jenkins-log-archiver/internal/config"
	"github.com/ciprianb/jenkins-log-archiver/internal/logging"
)

func TestPollingDetectsConfigChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("schedule: \"0 2 * * *\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	changed := make(chan struct{}, 1)
	w := New(path, config.ReloadConfig{
		Enabled:      true,
		Method:       "poll",
		PollInterval: config.Duration(10 * time.Millisecond),
	}, logging.Nop(), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := w.Start(ctx); err != nil {
			t.Errorf("start: %v", err)
		}
	}()

	// Let the first poll seed the modtime baseline.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("schedule: \"0 3 * * *\"\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	future := time.Now().Add(time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatalf("change was never detected")
	}
}

func TestStartRejectsUnknownMethod(t *testing.T) {
	w := New("config.yaml", config.ReloadConfig{Method: "telepathy"}, logging.Nop(), func() {})
	if err := w.Start(context.Background()); err == nil {
		t.Fatalf("expected an error for an unknown method")
	}
}
