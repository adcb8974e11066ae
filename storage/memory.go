package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/youssefsiam38/sessionlog/types"
)

// MemoryStore is an in-memory implementation of Store.
// Thread-safe. Intended for tests and embedded single-process use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	events   map[string][]*types.Event
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		events:   make(map[string][]*types.Event),
	}
}

// CreateSession creates a new conversation session
func (s *MemoryStore) CreateSession(ctx context.Context, identifier string, metadata map[string]any) (string, error) {
	if identifier == "" {
		return "", fmt.Errorf("identifier is required")
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}

	sessionID := uuid.New().String()
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = &Session{
		ID:         sessionID,
		Identifier: identifier,
		Metadata:   metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return sessionID, nil
}

// GetSession retrieves a session by ID
func (s *MemoryStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	copied := *session
	return &copied, nil
}

// UpdateSessionCompactionCount increments the compaction count
func (s *MemoryStore) UpdateSessionCompactionCount(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	session.CompactionCount++
	session.UpdatedAt = time.Now()
	return nil
}

// AppendEvent stores the event at the end of the session's log, assigning the
// next sequence index.
func (s *MemoryStore) AppendEvent(ctx context.Context, event *types.Event) (*types.Event, error) {
	if event == nil {
		return nil, ErrNilEvent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[event.SessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, event.SessionID)
	}

	stored := *event
	stored.ID = uuid.New()
	stored.Sequence = int64(len(s.events[event.SessionID]))
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	s.events[event.SessionID] = append(s.events[event.SessionID], &stored)
	session.UpdatedAt = stored.CreatedAt

	copied := stored
	return &copied, nil
}

// GetEvents retrieves all events for a session ordered by sequence
func (s *MemoryStore) GetEvents(ctx context.Context, sessionID string) ([]*types.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	events := s.events[sessionID]
	out := make([]*types.Event, len(events))
	for i, ev := range events {
		copied := *ev
		out[i] = &copied
	}
	return out, nil
}

// GetEventsSince retrieves events with sequence greater than seq
func (s *MemoryStore) GetEventsSince(ctx context.Context, sessionID string, seq int64) ([]*types.Event, error) {
	events, err := s.GetEvents(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out := make([]*types.Event, 0, len(events))
	for _, ev := range events {
		if ev.Sequence > seq {
			out = append(out, ev)
		}
	}
	return out, nil
}

// GetCompactionEvents retrieves the events carrying compaction records, in order
func (s *MemoryStore) GetCompactionEvents(ctx context.Context, sessionID string) ([]*types.Event, error) {
	events, err := s.GetEvents(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	out := make([]*types.Event, 0)
	for _, ev := range events {
		if ev.IsCompaction() {
			out = append(out, ev)
		}
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
