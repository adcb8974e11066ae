// Package sessionlog provides an append-only session event log with
// automatic LLM-backed compaction.
//
// Events are appended to a session with store-assigned, monotonically
// increasing sequence numbers. After every N non-compaction events past the
// last compaction boundary (the interval), a summarization pass folds the
// accumulated window into a single synthetic compaction event. A
// configurable overlap re-includes the tail of the previous window for
// continuity. Originals are never deleted; they are only skipped when a
// context is built with FilterForContext.
//
// Basic usage:
//
//	store := storage.NewMemoryStore()
//	client := anthropic.NewClient()
//	session, err := sessionlog.New(ctx, store, "support-chat",
//		sessionlog.WithClient(&client),
//		sessionlog.WithCompactionInterval(20),
//		sessionlog.WithOverlapSize(2),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := session.AppendText(ctx, "user", "hello")
//
// Compaction failures never fail the append: the event is already durable
// and the error is reported on the AppendResult. Storage backends are
// pluggable through the storage.Store interface; in-memory, pgx, and
// database/sql implementations ship in the storage package.
package sessionlog
