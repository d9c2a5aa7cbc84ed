// Package worker drains archival triggers and executes runs sequentially.
package worker

import (
	"context"
	"time"

	"github.com/ciprianb/jenkins-log-archiver/internal/archiver"
	"github.com/ciprianb/jenkins-log-archiver/internal/logging"
	"github.com/ciprianb/jenkins-log-archiver/internal/mailbox"
)

// Trigger is one request to perform an archival run.
type Trigger struct {
	Reason string // "schedule", "signal", ...
	At     time.Time
}

// Runner executes one archival run. Satisfied by *archiver.Runner.
type Runner interface {
	Run(ctx context.Context) (archiver.Outcome, error)
}

// Worker pulls triggers from the mailbox and runs the archiver. Because
// the mailbox holds at most one pending trigger, runs never stack: a
// missed slot is fully caught up by the next run.
type Worker struct {
	runner Runner
	mb     *mailbox.Mailbox[Trigger]
	log    logging.Logger
}

func New(runner Runner, mb *mailbox.Mailbox[Trigger], log logging.Logger) *Worker {
	return &Worker{
		runner: runner,
		mb:     mb,
		log:    log,
	}
}

// Start runs the drain loop until ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")
	for {
		trig, ok := w.mb.Take(ctx.Done())
		if !ok {
			return
		}

		w.log.Info("run triggered", "reason", trig.Reason, "at", trig.At)
		outcome, err := w.runner.Run(ctx)
		if err != nil {
			w.log.Error("run failed", "outcome", outcome.String(), "error", err)
			continue
		}
		w.log.Info("run finished", "outcome", outcome.String())
	}
}
