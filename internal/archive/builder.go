package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	archfs "github.com/ciprianb/jenkins-log-archiver/internal/fs"
)

// timestamp layout for artifact names, second granularity
const nameLayout = "20060102_150405"

// Builder writes archive artifacts into the backup directory.
type Builder struct {
	fs archfs.FS
}

func NewBuilder(filesystem archfs.FS) *Builder {
	if filesystem == nil {
		filesystem = archfs.New()
	}
	return &Builder{fs: filesystem}
}

// ArtifactName returns the artifact filename for a run started at ts.
// Runs whose start times differ by at least one second get distinct names.
func ArtifactName(prefix string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.tar.gz", prefix, ts.Format(nameLayout))
}

// ParseArtifactTime extracts the run timestamp from an artifact filename.
// It reports false for names that do not match the naming scheme, such as
// temp files or foreign files in the backup dir.
func ParseArtifactTime(prefix, name string) (time.Time, bool) {
	rest, ok := cutAffixes(name, prefix+"_", ".tar.gz")
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(nameLayout, rest, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func cutAffixes(s, prefix, suffix string) (string, bool) {
	if len(s) <= len(prefix)+len(suffix) {
		return "", false
	}
	if s[:len(prefix)] != prefix || s[len(s)-len(suffix):] != suffix {
		return "", false
	}
	return s[len(prefix) : len(s)-len(suffix)], true
}

// Build bundles the selected entries into destDir as a single tar.gz
// artifact named after the run's start time. The artifact is written to a
// dot-prefixed temp file first and renamed into place on success, so other
// processes never observe a partial archive. An empty selection produces
// no artifact and returns an empty path.
func (b *Builder) Build(ctx context.Context, entries []Entry, destDir, prefix string, ts time.Time) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	if err := b.fs.MkdirAll(destDir); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}

	name := ArtifactName(prefix, ts)
	tmpPath := filepath.Join(destDir, "."+name+".tmp")
	finalPath := filepath.Join(destDir, name)

	if err := b.writeArchive(ctx, tmpPath, entries); err != nil {
		_ = b.fs.Remove(tmpPath)
		return "", err
	}

	if err := b.fs.Rename(ctx, tmpPath, finalPath); err != nil {
		_ = b.fs.Remove(tmpPath)
		return "", fmt.Errorf("finalizing archive: %w", err)
	}

	return finalPath, nil
}

func (b *Builder) writeArchive(ctx context.Context, path string, entries []Entry) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if aerr := b.addEntry(tw, e); aerr != nil {
			return fmt.Errorf("adding %s: %w", e.Rel, aerr)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing tar stream: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("closing gzip stream: %w", err)
	}

	return out.Sync()
}

// addEntry re-stats the source so the header size matches what is
// actually copied even if the file grew since selection. The copy is
// bounded to the header size for the same reason.
func (b *Builder) addEntry(tw *tar.Writer, e Entry) error {
	info, err := b.fs.Stat(e.Path)
	if err != nil {
		return err
	}

	in, err := os.Open(e.Path)
	if err != nil {
		return err
	}
	defer in.Close()

	hdr := &tar.Header{
		Name:    filepath.ToSlash(e.Rel),
		Mode:    0o644,
		Size:    info.Size,
		ModTime: info.MTime,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	_, err = io.CopyN(tw, in, info.Size)
	return err
}
