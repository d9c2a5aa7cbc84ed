package watcher

import (
	"os"
)

// detect fires onChange if the config file changed since the last check.
func (w *Watcher) detect() {
	w.mu.RLock()
	path := w.path
	last := w.lastModTime
	w.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		return
	}

	mod := info.ModTime()
	if !last.IsZero() && !mod.After(last) {
		return
	}

	w.mu.Lock()
	first := w.lastModTime.IsZero()
	w.lastModTime = mod
	w.mu.Unlock()

	// the first observation only seeds the baseline
	if first {
		return
	}

	w.log.Info("config file changed", "path", path)
	w.onChange()
}
