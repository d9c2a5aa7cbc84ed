// Package archiver implements the log archival run: lock, disk guard,
// selection and compression, operator notification.
package archiver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ciprianb/jenkins-log-archiver/internal/archive"
	"github.com/ciprianb/jenkins-log-archiver/internal/config"
	"github.com/ciprianb/jenkins-log-archiver/internal/diskfree"
	"github.com/ciprianb/jenkins-log-archiver/internal/logging"
	"github.com/ciprianb/jenkins-log-archiver/internal/notify"
	"github.com/ciprianb/jenkins-log-archiver/internal/retention"
	"github.com/ciprianb/jenkins-log-archiver/internal/sysd"
)

// Lock is the mutual-exclusion token guarding a run. Satisfied by
// *lockfile.Guard.
type Lock interface {
	TryAcquire() (bool, error)
	Release()
}

// Params is the per-run configuration, passed in explicitly so the runner
// stays testable with injected directories and collaborators.
type Params struct {
	SourceDir        string
	BackupDir        string
	Prefix           string
	MaxAge           time.Duration
	DiskAbortPercent float64
	ArchiveTimeout   time.Duration
	KeepCount        int
	ProtectEnabled   bool
	ProtectUnit      string
}

// ParamsFromConfig extracts runner parameters from the loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		SourceDir:        cfg.Source.Path,
		BackupDir:        cfg.Backup.Path,
		Prefix:           cfg.Backup.Prefix,
		MaxAge:           cfg.Thresholds.MaxAge(),
		DiskAbortPercent: cfg.Thresholds.DiskAbortPercent,
		ArchiveTimeout:   cfg.Thresholds.ArchiveTimeout.Std(),
		KeepCount:        cfg.Backup.KeepCount,
		ProtectEnabled:   cfg.Protect.Enabled,
		ProtectUnit:      cfg.Protect.Unit,
	}
}

// Runner executes archival runs. One Runner serves the whole process
// lifetime; Run is called once per trigger.
type Runner struct {
	mu     sync.RWMutex
	params Params

	lock     Lock
	disk     diskfree.Sampler
	notifier notify.Notifier
	stopper  sysd.Stopper
	builder  *archive.Builder
	log      logging.Logger

	now func() time.Time
}

func New(params Params, lock Lock, disk diskfree.Sampler, notifier notify.Notifier, stopper sysd.Stopper, builder *archive.Builder, log logging.Logger) *Runner {
	if builder == nil {
		builder = archive.NewBuilder(nil)
	}
	return &Runner{
		params:   params,
		lock:     lock,
		disk:     disk,
		notifier: notifier,
		stopper:  stopper,
		builder:  builder,
		log:      log,
		now:      time.Now,
	}
}

// UpdateParams swaps the run parameters on hot reload.
func (r *Runner) UpdateParams(p Params) {
	r.mu.Lock()
	r.params = p
	r.mu.Unlock()
}

func (r *Runner) currentParams() Params {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.params
}

// Run performs one archival pass. Exactly one notification is sent for
// every terminal state, and the lock is released on every exit path.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	p := r.currentParams()
	start := r.now()

	held, err := r.lock.TryAcquire()
	if err != nil {
		return r.fail(ctx, fmt.Errorf("lock: %w", err))
	}
	if !held {
		r.log.Info("another run holds the lock, skipping")
		r.send(ctx, notify.Message{
			Subject: notify.SubjectSkipped,
			Body:    fmt.Sprintf("Archival run at %s skipped: another run is in progress.", start.Format(time.RFC3339)),
		})
		return OutcomeSkippedConcurrent, nil
	}
	defer r.lock.Release()

	usedPct, err := r.disk.UsedPercent(p.BackupDir)
	if err != nil {
		return r.fail(ctx, fmt.Errorf("disk guard: %w", err))
	}
	if usedPct > p.DiskAbortPercent {
		return r.abortDiskFull(ctx, p, usedPct), nil
	}

	artifact, count, bytes, err := r.archivePhase(ctx, p, start)
	if err != nil {
		return r.fail(ctx, err)
	}

	done := r.now()
	body := fmt.Sprintf("Archival run completed at %s.\nEligible files: %d (%d bytes).\n", done.Format(time.RFC3339), count, bytes)
	if artifact != "" {
		body += fmt.Sprintf("Artifact: %s\n", artifact)
	} else {
		body += "No eligible files, no artifact produced.\n"
	}
	r.send(ctx, notify.Message{Subject: notify.SubjectArchived, Body: body})

	r.log.Info("run completed", "artifact", artifact, "files", count, "elapsed", done.Sub(start))
	return OutcomeCompleted, nil
}

// abortDiskFull notifies the operator, then stops the log-producing
// service so it cannot exhaust the disk further. The guard takes priority
// over archival: no log files are read once it trips.
func (r *Runner) abortDiskFull(ctx context.Context, p Params, usedPct float64) Outcome {
	r.log.Error("disk usage over threshold, aborting", "usedPercent", usedPct, "threshold", p.DiskAbortPercent)
	r.send(ctx, notify.Message{
		Subject: notify.SubjectDiskFull,
		Body:    fmt.Sprintf("Disk usage at %.1f%% exceeds the %.1f%% abort threshold. Archival aborted.", usedPct, p.DiskAbortPercent),
	})

	if p.ProtectEnabled {
		if err := r.stopper.Stop(ctx, p.ProtectUnit); err != nil {
			r.log.Error("protective stop failed", "unit", p.ProtectUnit, "error", err)
		} else {
			r.log.Warn("stopped service to protect disk", "unit", p.ProtectUnit)
		}
	}

	return OutcomeAbortedDiskFull
}

// archivePhase selects eligible files and writes the artifact, bounded by
// the configured timeout. Timeout expiry is a hard failure rather than an
// indefinite hang while holding the lock.
func (r *Runner) archivePhase(ctx context.Context, p Params, start time.Time) (string, int, int64, error) {
	if p.ArchiveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.ArchiveTimeout)
		defer cancel()
	}

	cutoff := start.Add(-p.MaxAge)
	entries, err := archive.Select(p.SourceDir, cutoff)
	if err != nil {
		return "", 0, 0, err
	}

	var totalBytes int64
	for _, e := range entries {
		totalBytes += e.Size
	}

	artifact, err := r.builder.Build(ctx, entries, p.BackupDir, p.Prefix, start)
	if err != nil {
		return "", 0, 0, fmt.Errorf("building archive: %w", err)
	}

	if artifact != "" {
		ret := retention.New(p.Prefix, p.KeepCount, r.log)
		if err := ret.Apply(p.BackupDir); err != nil {
			r.log.Error("retention failed", "error", err)
		}
	}

	return artifact, len(entries), totalBytes, nil
}

func (r *Runner) fail(ctx context.Context, err error) (Outcome, error) {
	r.log.Error("run failed", "error", err)
	r.send(ctx, notify.Message{
		Subject: notify.SubjectFailed,
		Body:    fmt.Sprintf("Archival run failed: %v", err),
	})
	return OutcomeFailed, err
}

// send delivers a notification best-effort. Delivery failure never
// changes the run outcome.
func (r *Runner) send(ctx context.Context, msg notify.Message) {
	if err := r.notifier.Send(ctx, msg); err != nil {
		r.log.Error("notification failed", "subject", msg.Subject, "error", err)
	}
}
