// Package compaction keeps long session event logs bounded by periodically
// replacing a window of events with an LLM-generated summary.
//
// # Model
//
// The event log is append-only and the source of truth for a conversation.
// Once Interval new events have accumulated since the last compaction
// boundary, a pass selects a window, summarizes it, and appends one synthetic
// event whose action payload carries the compaction record (start index, end
// index, compacted content). Original events are never deleted; they are
// logically superseded for context-building purposes.
//
// # Window arithmetic
//
// A window ends at the event whose append triggered the pass and starts
// Overlap events before the previous boundary's successor:
//
//	start = max(lastEnd + 1 - overlap, 0)
//	end   = sequence of the triggering event
//
// The last Overlap events of one window are exactly the first Overlap events
// of the next, giving successive summaries continuity instead of a hard cut.
//
// # Summarizers
//
// Summarization is pluggable through the Summarizer interface. The built-in
// LLMSummarizer renders the window as "{author}: {text}" lines, substitutes
// them into a prompt template's {events} placeholder, and asks Claude via the
// streaming API. SummarizeFunc adapts any function with the same shape.
//
// # Failure semantics
//
// A pass either fully appends its synthetic event or leaves the log exactly
// as it was. Summarizer failures (including timeouts) surface as
// *SummarizationError wrapping ErrSummarizationFailed.
package compaction
