// Package notify delivers run-outcome messages to the operator.
// Exactly one message is produced per run; delivery is best-effort.
package notify

import "context"

// Fixed subject lines, one per terminal state.
const (
	SubjectSkipped  = "Jenkins Log Archiver: Skipped"
	SubjectDiskFull = "CRITICAL: Disk Full"
	SubjectArchived = "Jenkins Logs Archived"
	SubjectFailed   = "Jenkins Log Archiver: FAILED"
)

// Message is one outbound operator notification.
type Message struct {
	Subject string
	Body    string
}

// Notifier sends a message. Implementations are fire-and-forget:
// a returned error is logged by the caller, never escalated.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
