package sessionlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/youssefsiam38/sessionlog/compaction"
	"github.com/youssefsiam38/sessionlog/hooks"
	"github.com/youssefsiam38/sessionlog/storage"
	"github.com/youssefsiam38/sessionlog/types"
)

// Session is an append-only event log with automatic compaction. Events are
// appended with monotonically increasing sequence numbers; when enough events
// accumulate since the last compaction boundary, a summarization pass folds
// them into a single synthetic compaction event. Original events are never
// deleted.
//
// A Session is safe for concurrent use as long as its Store is.
type Session struct {
	id        string
	store     storage.Store
	compactor *compaction.Compactor
	hooks     *hooks.Registry
	logger    compaction.Logger
}

// AppendResult reports the outcome of one Append call. Compaction is nil when
// no compaction pass ran. CompactionErr carries a failed pass; the append
// itself still succeeded and the log is untouched by the failure.
type AppendResult struct {
	Event         *types.Event
	Compaction    *compaction.Result
	CompactionErr error
}

// Stats summarizes the state of a session's log.
type Stats struct {
	TotalEvents      int
	CompactionEvents int
	// ActiveEvents is the number of events a context build would include:
	// compaction events plus originals not covered by any compaction range.
	ActiveEvents         int
	LastCompactionEnd    int64
	EventsSinceBoundary  int
	CompactionsPerformed int
}

// New creates a new session backed by the given store. The identifier is an
// application-level name recorded on the session row; it does not need to be
// unique.
func New(ctx context.Context, store storage.Store, identifier string, opts ...Option) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.resolveSummarizer()

	id, err := store.CreateSession(ctx, identifier, nil)
	if err != nil {
		return nil, NewSessionError("create", fmt.Errorf("%w: %v", ErrStorageError, err))
	}

	return newSession(id, store, cfg)
}

// Open attaches to an existing session by ID.
func Open(ctx context.Context, store storage.Store, sessionID string, opts ...Option) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.resolveSummarizer()

	if _, err := store.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, NewSessionErrorWithID("open", sessionID, ErrSessionNotFound)
		}
		return nil, NewSessionErrorWithID("open", sessionID, fmt.Errorf("%w: %v", ErrStorageError, err))
	}

	return newSession(sessionID, store, cfg)
}

func newSession(id string, store storage.Store, cfg *config) (*Session, error) {
	compactor, err := compaction.New(store, cfg.compaction, cfg.logger)
	if err != nil {
		return nil, err
	}

	return &Session{
		id:        id,
		store:     store,
		compactor: compactor,
		hooks:     cfg.hooks,
		logger:    cfg.logger,
	}, nil
}

// ID returns the session's store-assigned identifier.
func (s *Session) ID() string {
	return s.id
}

// Append validates and appends an event to the log, then runs a compaction
// pass if one is due. A failed compaction never fails the append: the error
// is reported on the result and the conversation continues.
func (s *Session) Append(ctx context.Context, event *types.Event) (*AppendResult, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	event.SessionID = s.id

	if s.hooks != nil {
		if err := s.hooks.TriggerBeforeAppend(ctx, event); err != nil {
			return nil, NewSessionErrorWithID("append", s.id, err)
		}
	}

	stored, err := s.store.AppendEvent(ctx, event)
	if err != nil {
		return nil, NewSessionErrorWithID("append", s.id, fmt.Errorf("%w: %v", ErrStorageError, err))
	}

	if s.hooks != nil {
		if err := s.hooks.TriggerAfterAppend(ctx, stored); err != nil {
			s.logger.Warn("after-append hook failed", "session_id", s.id, "error", err)
		}
	}

	result := &AppendResult{Event: stored}

	if !s.compactor.Enabled() || stored.IsCompaction() {
		return result, nil
	}

	if s.hooks != nil {
		if err := s.hooks.TriggerBeforeCompaction(ctx, s.id); err != nil {
			s.logger.Warn("before-compaction hook failed", "session_id", s.id, "error", err)
		}
	}

	compacted, cerr := s.compactor.MaybeCompact(ctx, s.id)
	if cerr != nil {
		s.logger.Error("compaction failed", "session_id", s.id, "error", cerr)
		result.CompactionErr = cerr
		return result, nil
	}
	result.Compaction = compacted

	if compacted != nil && s.hooks != nil {
		if err := s.hooks.TriggerAfterCompaction(ctx, compacted); err != nil {
			s.logger.Warn("after-compaction hook failed", "session_id", s.id, "error", err)
		}
	}

	return result, nil
}

// AppendText is a convenience for appending a plain text event.
func (s *Session) AppendText(ctx context.Context, author, text string) (*AppendResult, error) {
	return s.Append(ctx, types.NewTextEvent(author, text))
}

// Events returns every event in the log, compaction events included, ordered
// by sequence. Reading never mutates the log.
func (s *Session) Events(ctx context.Context) ([]*types.Event, error) {
	events, err := s.store.GetEvents(ctx, s.id)
	if err != nil {
		return nil, NewSessionErrorWithID("get_events", s.id, fmt.Errorf("%w: %v", ErrStorageError, err))
	}
	return events, nil
}

// CompactionEvents returns only the synthetic compaction events, ordered by
// sequence.
func (s *Session) CompactionEvents(ctx context.Context) ([]*types.Event, error) {
	events, err := s.store.GetCompactionEvents(ctx, s.id)
	if err != nil {
		return nil, NewSessionErrorWithID("get_compaction_events", s.id, fmt.Errorf("%w: %v", ErrStorageError, err))
	}
	return events, nil
}

// ContextEvents returns the events an LLM conversation would be built from:
// compaction events stand in for the originals they cover, and uncovered
// originals pass through unchanged.
func (s *Session) ContextEvents(ctx context.Context) ([]*types.Event, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	return FilterForContext(events), nil
}

// Compact forces a compaction pass regardless of the interval trigger. It
// fails when nothing new exists past the last boundary.
func (s *Session) Compact(ctx context.Context) (*compaction.Result, error) {
	if s.hooks != nil {
		if err := s.hooks.TriggerBeforeCompaction(ctx, s.id); err != nil {
			s.logger.Warn("before-compaction hook failed", "session_id", s.id, "error", err)
		}
	}

	result, err := s.compactor.Compact(ctx, s.id)
	if err != nil {
		return nil, err
	}

	if s.hooks != nil {
		if err := s.hooks.TriggerAfterCompaction(ctx, result); err != nil {
			s.logger.Warn("after-compaction hook failed", "session_id", s.id, "error", err)
		}
	}

	return result, nil
}

// CompactionDue reports whether the next append would trigger a pass.
func (s *Session) CompactionDue(ctx context.Context) (bool, error) {
	return s.compactor.Due(ctx, s.id)
}

// Stats returns counts describing the log and its compaction history.
func (s *Session) Stats(ctx context.Context) (*Stats, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalEvents:       len(events),
		ActiveEvents:      len(FilterForContext(events)),
		LastCompactionEnd: -1,
	}
	for _, e := range events {
		if e.IsCompaction() {
			stats.CompactionEvents++
			if e.Actions.Compaction.EndIndex > stats.LastCompactionEnd {
				stats.LastCompactionEnd = e.Actions.Compaction.EndIndex
			}
		}
	}
	for _, e := range events {
		if !e.IsCompaction() && e.Sequence > stats.LastCompactionEnd {
			stats.EventsSinceBoundary++
		}
	}

	if sess, err := s.store.GetSession(ctx, s.id); err == nil {
		stats.CompactionsPerformed = sess.CompactionCount
	} else {
		stats.CompactionsPerformed = stats.CompactionEvents
	}

	return stats, nil
}

func validateEvent(event *types.Event) error {
	if event == nil {
		return NewValidationError("event", "is required")
	}
	if event.Author == "" {
		return NewValidationError("author", "is required")
	}
	if len(event.Content) == 0 && !event.IsCompaction() {
		return NewValidationError("content", "must not be empty")
	}
	return nil
}
