package sessionlog

import (
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/youssefsiam38/sessionlog/compaction"
	"github.com/youssefsiam38/sessionlog/hooks"
)

// Option configures a Session
type Option func(*config)

// WithClient sets the Anthropic client used by the default summarizer
func WithClient(client *anthropic.Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithCompactionInterval enables compaction, triggering a summarization pass
// after every n appended events. Values <= 0 disable compaction.
func WithCompactionInterval(n int) Option {
	return func(c *config) {
		c.compaction.Interval = n
	}
}

// WithOverlapSize sets how many events from before the previous compaction
// boundary are re-included in the next summarization window for continuity.
// Must be smaller than the compaction interval.
func WithOverlapSize(n int) Option {
	return func(c *config) {
		c.compaction.Overlap = n
	}
}

// WithSummarizer replaces the default LLM-backed summarizer. When set, no
// Anthropic client is required.
func WithSummarizer(s compaction.Summarizer) Option {
	return func(c *config) {
		c.compaction.Summarizer = s
	}
}

// WithSummaryPrompt sets the prompt template used by the default summarizer.
// The template must contain the {events} placeholder.
func WithSummaryPrompt(prompt string) Option {
	return func(c *config) {
		c.compaction.Prompt = prompt
	}
}

// WithSummarizerModel sets the model used by the default summarizer
func WithSummarizerModel(model string) Option {
	return func(c *config) {
		c.compaction.Model = model
	}
}

// WithSummarizerMaxTokens sets the max tokens for summary generation
func WithSummarizerMaxTokens(n int) Option {
	return func(c *config) {
		c.compaction.MaxTokens = n
	}
}

// WithSummarizationTimeout bounds how long a single summarization call may
// take before it is abandoned
func WithSummarizationTimeout(d time.Duration) Option {
	return func(c *config) {
		c.compaction.Timeout = d
	}
}

// WithBeforeSummarize installs a guard consulted before each summarization
// call. The guard can let summarization proceed or supply the compacted
// content itself, skipping the LLM call entirely.
func WithBeforeSummarize(guard compaction.BeforeSummarizeGuard) Option {
	return func(c *config) {
		c.compaction.Guard = guard
	}
}

// WithModelRegistry replaces the default model registry
func WithModelRegistry(registry *ModelRegistry) Option {
	return func(c *config) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithHooks installs a hook registry whose callbacks fire around appends and
// compactions
func WithHooks(registry *hooks.Registry) Option {
	return func(c *config) {
		c.hooks = registry
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger compaction.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
