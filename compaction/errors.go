package compaction

import (
	"errors"
	"fmt"
)

// Sentinel errors for compaction operations.
var (
	// ErrInvalidConfig indicates invalid compaction configuration.
	ErrInvalidConfig = errors.New("invalid compaction configuration")

	// ErrNotEnoughEvents indicates there are no new events eligible for compaction.
	ErrNotEnoughEvents = errors.New("not enough events to compact")

	// ErrSummarizationFailed indicates the summarizer invocation failed or timed out.
	ErrSummarizationFailed = errors.New("summarization failed")

	// ErrStorageError indicates a storage operation failed.
	ErrStorageError = errors.New("storage operation failed")
)

// SummarizationError is returned when a compaction pass fails in the
// summarizer. The event log is untouched on this path: a compaction either
// fully appends its synthetic event or nothing at all.
type SummarizationError struct {
	// Op is the operation that failed (e.g., "Summarize", "Compact")
	Op string

	// SessionID is the session ID if applicable
	SessionID string

	// Err is the underlying error
	Err error
}

// Error returns a formatted error message.
func (e *SummarizationError) Error() string {
	msg := fmt.Sprintf("summarization %s failed", e.Op)
	if e.SessionID != "" {
		msg += fmt.Sprintf(" for session %s", e.SessionID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// NewSummarizationError creates a new SummarizationError.
// The underlying error is wrapped so that errors.Is(err, ErrSummarizationFailed)
// holds for every error produced here.
func NewSummarizationError(op, sessionID string, err error) *SummarizationError {
	if err == nil {
		err = ErrSummarizationFailed
	} else if !errors.Is(err, ErrSummarizationFailed) {
		err = fmt.Errorf("%w: %w", ErrSummarizationFailed, err)
	}
	return &SummarizationError{
		Op:        op,
		SessionID: sessionID,
		Err:       err,
	}
}
