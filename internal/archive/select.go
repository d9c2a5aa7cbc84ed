// Package archive selects eligible log files and bundles them into
// timestamped tar.gz artifacts.
package archive

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"
)

// Entry is one log file selected for archival. Sources are read-only to
// the archiver; they are referenced, never mutated or removed.
type Entry struct {
	Path    string // absolute path
	Rel     string // path relative to the log dir, used as the tar entry name
	Size    int64
	ModTime time.Time
}

// Select walks dir and returns the regular files whose modification time
// is strictly before cutoff. A file modified exactly at the cutoff is
// not eligible.
func Select(dir string, cutoff time.Time) ([]Entry, error) {
	var selected []Entry

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		selected = append(selected, Entry{
			Path:    path,
			Rel:     rel,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning log dir %s: %w", dir, err)
	}

	return selected, nil
}
