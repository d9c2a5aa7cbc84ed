// Package watcher monitors the config file and triggers hot reloads.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/ciprianb/jenkins-log-archiver/internal/config"
	"github.com/ciprianb/jenkins-log-archiver/internal/fsprobe"
	"github.com/ciprianb/jenkins-log-archiver/internal/logging"
)

const debounceWindow = 500 * time.Millisecond

// Watcher observes the config file and invokes onChange when it is updated.
type Watcher struct {
	mu sync.RWMutex

	path     string // config file path
	mode     string
	interval time.Duration

	log logging.Logger

	lastModTime time.Time

	onChange func()
}

// New creates a watcher for the config file.
func New(path string, cfg config.ReloadConfig, log logging.Logger, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		mode:     cfg.Method,
		interval: cfg.PollInterval.Std(),
		log:      log,
		onChange: onChange,
	}
}

// Start chooses the correct watching strategy based on config.
func (w *Watcher) Start(ctx context.Context) error {
	switch w.mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "auto":
		res := fsprobe.Probe(filepath.Dir(w.path))
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, falling back to polling", "reason", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown reload method %q", w.mode)
	}
}
