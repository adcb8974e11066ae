package hooks

import (
	"context"
	"log"

	"github.com/youssefsiam38/sessionlog/compaction"
	"github.com/youssefsiam38/sessionlog/types"
)

// LoggingHooks provides built-in logging hooks for observability
type LoggingHooks struct {
	logger *log.Logger
}

// NewLoggingHooks creates logging hooks with the provided logger
func NewLoggingHooks(logger *log.Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// DefaultLoggingHooks creates logging hooks with the default logger
func DefaultLoggingHooks() *LoggingHooks {
	return &LoggingHooks{logger: log.Default()}
}

// RegisterAll registers every logging hook on the given registry
func (h *LoggingHooks) RegisterAll(r *Registry) {
	r.OnBeforeAppend(h.BeforeAppend)
	r.OnAfterAppend(h.AfterAppend)
	r.OnBeforeCompaction(h.BeforeCompaction)
	r.OnAfterCompaction(h.AfterCompaction)
}

// BeforeAppend logs before an event is appended
func (h *LoggingHooks) BeforeAppend(ctx context.Context, event *types.Event) error {
	h.logger.Printf("[sessionlog] Appending event from %q to session %s", event.Author, event.SessionID)
	return nil
}

// AfterAppend logs after an event has been appended
func (h *LoggingHooks) AfterAppend(ctx context.Context, event *types.Event) error {
	h.logger.Printf("[sessionlog] Appended event %s at sequence %d", event.ID, event.Sequence)
	return nil
}

// BeforeCompaction logs before a compaction pass
func (h *LoggingHooks) BeforeCompaction(ctx context.Context, sessionID string) error {
	h.logger.Printf("[sessionlog] Starting compaction for session %s", sessionID)
	return nil
}

// AfterCompaction logs after a compaction pass
func (h *LoggingHooks) AfterCompaction(ctx context.Context, result *compaction.Result) error {
	h.logger.Printf("[sessionlog] Compaction complete: events [%d-%d] compacted (%d events, %d chars of summary)",
		result.StartIndex, result.EndIndex, result.EventsCompacted, len(result.Summary))
	return nil
}
