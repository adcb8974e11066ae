package compaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/youssefsiam38/sessionlog/storage"
	"github.com/youssefsiam38/sessionlog/types"
)

// Logger interface for compaction logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a no-op implementation of Logger.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return noopLogger{} }

// Result contains the outcome of one compaction pass.
type Result struct {
	// EventID is the ID of the synthetic compaction event.
	EventID uuid.UUID

	// SessionID is the session that was compacted.
	SessionID string

	// StartIndex and EndIndex are the inclusive sequence range the pass
	// superseded.
	StartIndex int64
	EndIndex   int64

	// EventsCompacted is the number of events that were summarized.
	EventsCompacted int

	// Summary is the compacted content.
	Summary string

	// Overridden indicates the summary came from a guard override rather
	// than the summarizer.
	Overridden bool

	// Duration is how long the pass took.
	Duration time.Duration
}

// Compactor orchestrates compaction passes over a session's event log.
type Compactor struct {
	store      storage.Store
	config     *Config
	summarizer Summarizer
	logger     Logger
}

// New creates a Compactor. The config must have been validated and, when
// enabled, must carry a summarizer.
func New(store storage.Store, config *Config, logger Logger) (*Compactor, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if config == nil {
		config = &Config{}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.ApplyDefaults()

	if config.Enabled() && config.Summarizer == nil {
		return nil, fmt.Errorf("%w: summarizer is required when compaction is enabled", ErrInvalidConfig)
	}

	if logger == nil {
		logger = noopLogger{}
	}

	return &Compactor{
		store:      store,
		config:     config,
		summarizer: config.Summarizer,
		logger:     logger,
	}, nil
}

// Enabled reports whether this compactor ever triggers.
func (c *Compactor) Enabled() bool {
	return c.config.Enabled()
}

// Config returns the compactor's configuration.
func (c *Compactor) Config() *Config {
	return c.config
}

// Due reports whether enough events have accumulated since the last
// compaction boundary to trigger a pass.
func (c *Compactor) Due(ctx context.Context, sessionID string) (bool, error) {
	if !c.config.Enabled() {
		return false, nil
	}

	events, err := c.store.GetEvents(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorageError, err)
	}

	return due(events, c.config.Interval), nil
}

// MaybeCompact performs a compaction pass only if one is due.
// Returns a nil result when compaction was not needed.
func (c *Compactor) MaybeCompact(ctx context.Context, sessionID string) (*Result, error) {
	if !c.config.Enabled() {
		return nil, nil
	}

	events, err := c.store.GetEvents(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}

	if !due(events, c.config.Interval) {
		c.logger.Debug("compaction not due", "session_id", sessionID)
		return nil, nil
	}

	return c.compact(ctx, sessionID, events)
}

// Compact forces a compaction pass regardless of the trigger. It fails with
// ErrNotEnoughEvents when no events newer than the last boundary exist.
func (c *Compactor) Compact(ctx context.Context, sessionID string) (*Result, error) {
	events, err := c.store.GetEvents(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}

	return c.compact(ctx, sessionID, events)
}

// compact runs one pass end-to-end. The pass is atomic with respect to the
// log: the synthetic event is appended only after the summary exists, so a
// failing summarizer leaves the log exactly as it was.
func (c *Compactor) compact(ctx context.Context, sessionID string, events []*types.Event) (*Result, error) {
	start := time.Now()

	window, ok := selectWindow(events, c.config.Overlap)
	if !ok {
		return nil, ErrNotEnoughEvents
	}

	c.logger.Info("starting compaction",
		"session_id", sessionID,
		"start_index", window.Start,
		"end_index", window.End,
		"events", len(window.Events),
	)

	summary, overridden, err := c.summarize(ctx, sessionID, window.Events)
	if err != nil {
		return nil, err
	}

	compactionEvent := &types.Event{
		SessionID: sessionID,
		Author:    "system",
		Content: []types.Part{
			{Type: types.PartTypeText, Text: "Session history compacted"},
		},
		Actions: types.Actions{
			Compaction: &types.Compaction{
				StartIndex:       window.Start,
				EndIndex:         window.End,
				CompactedContent: summary,
				CreatedAt:        time.Now(),
			},
		},
	}

	stored, err := c.store.AppendEvent(ctx, compactionEvent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}

	if err := c.store.UpdateSessionCompactionCount(ctx, sessionID); err != nil {
		c.logger.Warn("failed to update session compaction count",
			"session_id", sessionID,
			"error", err,
		)
	}

	result := &Result{
		EventID:         stored.ID,
		SessionID:       sessionID,
		StartIndex:      window.Start,
		EndIndex:        window.End,
		EventsCompacted: len(window.Events),
		Summary:         summary,
		Overridden:      overridden,
		Duration:        time.Since(start),
	}

	c.logger.Info("compaction complete",
		"session_id", sessionID,
		"start_index", result.StartIndex,
		"end_index", result.EndIndex,
		"events_compacted", result.EventsCompacted,
		"overridden", result.Overridden,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// summarize produces the compacted content for the window, consulting the
// guard first and bounding the summarizer call with the configured timeout.
func (c *Compactor) summarize(ctx context.Context, sessionID string, window []*types.Event) (string, bool, error) {
	if c.config.Guard != nil {
		guardResult, err := c.config.Guard(ctx, window)
		if err != nil {
			return "", false, NewSummarizationError("Guard", sessionID, err)
		}
		if guardResult.Decision == GuardOverride {
			c.logger.Debug("summary overridden by guard", "session_id", sessionID)
			return guardResult.Content, true, nil
		}
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	summary, err := c.summarizer.Summarize(ctx, window)
	if err != nil {
		return "", false, NewSummarizationError("Summarize", sessionID, err)
	}

	return summary, false, nil
}
