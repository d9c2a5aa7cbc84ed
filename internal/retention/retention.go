// Package retention prunes old archive artifacts from the backup directory.
package retention

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ciprianb/jenkins-log-archiver/internal/archive"
	"github.com/ciprianb/jenkins-log-archiver/internal/logging"
)

type Engine struct {
	prefix string
	keep   int
	log    logging.Logger
}

// New creates a retention engine. keep == 0 disables pruning entirely.
func New(prefix string, keep int, log logging.Logger) *Engine {
	return &Engine{
		prefix: prefix,
		keep:   keep,
		log:    log,
	}
}

// artifact pairs a backup-dir file with the run timestamp parsed from its name.
type artifact struct {
	Path      string
	Timestamp time.Time
}

// Apply keeps only the newest N artifacts in the backup dir.
// Files that do not match the artifact naming scheme are left alone.
func (e *Engine) Apply(dir string) error {
	if e.keep <= 0 {
		return nil
	}

	artifacts, err := scanArtifacts(dir, e.prefix)
	if err != nil {
		return err
	}

	if len(artifacts) <= e.keep {
		return nil
	}

	// Sort newest → oldest
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Timestamp.After(artifacts[j].Timestamp)
	})

	toDelete := artifacts[e.keep:]

	for _, a := range toDelete {
		if err := os.Remove(a.Path); err != nil {
			e.log.Error("retention: removing artifact failed", "path", a.Path, "error", err)
			continue
		}
		e.log.Info("retention: removed artifact", "path", a.Path)
	}

	return nil
}

// scanArtifacts finds archive artifacts in a folder by name pattern.
func scanArtifacts(dir, prefix string) ([]artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading backup dir: %w", err)
	}

	var artifacts []artifact
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		ts, ok := archive.ParseArtifactTime(prefix, ent.Name())
		if !ok {
			continue
		}
		artifacts = append(artifacts, artifact{
			Path:      filepath.Join(dir, ent.Name()),
			Timestamp: ts,
		})
	}

	return artifacts, nil
}
