package compaction

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	// DefaultModel is the model used by the built-in LLM summarizer.
	// Using a faster/cheaper model is recommended.
	DefaultModel = "claude-3-5-haiku-20241022"

	// DefaultMaxTokens is the maximum tokens for the summarization response.
	DefaultMaxTokens = 4096

	// DefaultTimeout bounds a single summarization call.
	DefaultTimeout = 60 * time.Second
)

// Config holds compaction configuration.
//
// Compaction is disabled unless Interval is positive; a disabled config is
// always valid and every check becomes a no-op.
type Config struct {
	// Interval is the number of new events between compaction passes.
	// Compaction triggers once Interval events have accumulated since the
	// last compaction boundary. Zero or negative disables compaction.
	Interval int

	// Overlap is the number of trailing events from the previous window
	// retained as leading context in the next window. Must be non-negative
	// and strictly less than Interval so that each pass makes forward
	// progress.
	Overlap int

	// Summarizer produces the compacted content for a window.
	// If nil, the session wires in the built-in LLM summarizer.
	Summarizer Summarizer

	// Prompt overrides the template used by the built-in summarizer.
	// The template must contain a single {events} placeholder.
	// Default: DefaultPrompt
	Prompt string

	// Model is the model used by the built-in summarizer.
	// Default: DefaultModel
	Model string

	// MaxTokens is the response budget for the built-in summarizer.
	// Default: DefaultMaxTokens
	MaxTokens int

	// Timeout bounds a single summarization call. A timed-out call surfaces
	// as a SummarizationError rather than hanging the turn.
	// Default: DefaultTimeout
	Timeout time.Duration

	// Guard is an optional before-summarize hook. It may override the
	// summary content, short-circuiting the summarizer entirely.
	Guard BeforeSummarizeGuard
}

// Enabled reports whether compaction is active.
func (c *Config) Enabled() bool {
	return c != nil && c.Interval > 0
}

// Validate validates the configuration and returns an error if invalid.
// A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled() {
		return nil
	}

	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must be non-negative, got %d", ErrInvalidConfig, c.Overlap)
	}

	if c.Overlap >= c.Interval {
		return fmt.Errorf("%w: overlap (%d) must be less than interval (%d)",
			ErrInvalidConfig, c.Overlap, c.Interval)
	}

	if c.MaxTokens < 0 {
		return fmt.Errorf("%w: max_tokens must be non-negative, got %d", ErrInvalidConfig, c.MaxTokens)
	}

	return nil
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}
