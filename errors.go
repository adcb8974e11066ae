package sessionlog

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig is returned when the session configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSessionNotFound is returned when a session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrStorageError is returned when a storage operation failed
	ErrStorageError = errors.New("storage operation failed")
)

// ValidationError is returned by Append when an event is malformed.
// The event log is unaffected by the failed append.
type ValidationError struct {
	Field  string // The event field that failed validation
	Reason string // Why validation failed
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event: %s %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SessionError represents an error with additional session context
type SessionError struct {
	Op        string         // Operation that failed
	Err       error          // Underlying error
	SessionID string         // Session ID if applicable
	Context   map[string]any // Additional context
}

// Error implements the error interface
func (e *SessionError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("%s (session=%s): %v", e.Op, e.SessionID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *SessionError) Unwrap() error {
	return e.Err
}

// WithContext adds additional context to the error
func (e *SessionError) WithContext(key string, value any) *SessionError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewSessionError creates a new SessionError
func NewSessionError(op string, err error) *SessionError {
	return &SessionError{
		Op:  op,
		Err: err,
	}
}

// NewSessionErrorWithID creates a new SessionError with a session ID
func NewSessionErrorWithID(op string, sessionID string, err error) *SessionError {
	return &SessionError{
		Op:        op,
		Err:       err,
		SessionID: sessionID,
	}
}
