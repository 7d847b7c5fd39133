package webhook

import "fmt"

/* Status represents the current state of a webhook record
 * Follows the lifecycle: Pending -> Processed/Failed, Failed -> Retrying -> Processed/Failed
 */
type Status int

const (
	Pending Status = iota + 1
	Processed
	Failed
	Retrying
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Processed:
		return "processed"
	case Failed:
		return "failed"
	case Retrying:
		return "retrying"
	default:
		return "unknown"
	}
}

// NewStatus creates a Status from a string
func NewStatus(str string) Status {
	switch str {
	case "pending":
		return Pending
	case "processed":
		return Processed
	case "failed":
		return Failed
	case "retrying":
		return Retrying
	default:
		return Pending
	}
}

// Validate checks if the status is valid
func (s Status) Validate() error {
	if s < Pending || s > Retrying {
		return fmt.Errorf("invalid status: %d", s)
	}
	return nil
}

// IsTerminal returns true if the status marks a completed processing attempt
func (s Status) IsTerminal() bool {
	return s == Processed || s == Failed
}

/* CanTransitionTo enforces the record state machine:
 * Pending -> Processed|Failed
 * Failed -> Retrying
 * Retrying -> Processed|Failed
 */
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case Pending:
		return next == Processed || next == Failed
	case Failed:
		return next == Retrying
	case Retrying:
		return next == Processed || next == Failed
	default:
		return false
	}
}
