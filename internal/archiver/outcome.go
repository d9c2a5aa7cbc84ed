package archiver

// Outcome is the terminal state of one archival run.
type Outcome int

const (
	// OutcomeCompleted means the run finished normally, with or without
	// producing an artifact.
	OutcomeCompleted Outcome = iota

	// OutcomeSkippedConcurrent means another run held the lock; nothing
	// was read or written.
	OutcomeSkippedConcurrent

	// OutcomeAbortedDiskFull means disk usage exceeded the abort
	// threshold and the protective stop was triggered.
	OutcomeAbortedDiskFull

	// OutcomeFailed means selection or compression hit a hard error.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeSkippedConcurrent:
		return "skipped-concurrent"
	case OutcomeAbortedDiskFull:
		return "aborted-disk-full"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ExitCode maps an outcome to the process exit status reported to the
// scheduler. An intentional skip is not an error.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeCompleted, OutcomeSkippedConcurrent:
		return 0
	case OutcomeAbortedDiskFull:
		return 2
	default:
		return 1
	}
}
