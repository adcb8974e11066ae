package storage

import (
	"context"
	"errors"
	"time"

	"github.com/youssefsiam38/sessionlog/types"
)

// Store errors
var (
	// ErrSessionNotFound is returned when a session does not exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrNilEvent is returned when a nil event is appended
	ErrNilEvent = errors.New("event is nil")
)

// Store defines the storage interface for session event logs.
//
// The event log is append-only: AppendEvent assigns the next sequence index
// for the session and the stored sequence is monotonic and never reused.
// Implementations must be safe for concurrent use across sessions; a single
// session is written by one caller at a time.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, identifier string, metadata map[string]any) (string, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	UpdateSessionCompactionCount(ctx context.Context, sessionID string) error

	// Event operations
	// AppendEvent stores the event at the end of the session's log, assigning
	// its ID, Sequence, and CreatedAt, and returns the stored event.
	AppendEvent(ctx context.Context, event *types.Event) (*types.Event, error)
	// GetEvents retrieves all events for a session ordered by sequence.
	GetEvents(ctx context.Context, sessionID string) ([]*types.Event, error)
	// GetEventsSince retrieves events with sequence greater than seq, in order.
	GetEventsSince(ctx context.Context, sessionID string, seq int64) ([]*types.Event, error)
	// GetCompactionEvents retrieves the ordered subsequence of events that
	// carry a compaction record.
	GetCompactionEvents(ctx context.Context, sessionID string) ([]*types.Event, error)
}

// Session represents a conversation session that owns one event log
type Session struct {
	ID              string         `json:"id"`
	Identifier      string         `json:"identifier"`
	Metadata        map[string]any `json:"metadata"`
	CompactionCount int            `json:"compaction_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
