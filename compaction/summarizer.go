package compaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/youssefsiam38/sessionlog/types"
)

// Summarizer reduces an ordered window of events into a single compacted
// content block. It never mutates the event log; it is invoked synchronously
// per compaction pass and returns a value.
//
// A Summarizer shared across sessions must be side-effect-free and
// re-entrant. Output may vary run-to-run when an external model is involved;
// byte-level determinism is not required.
type Summarizer interface {
	Summarize(ctx context.Context, window []*types.Event) (string, error)
}

// SummarizeFunc adapts a plain function to the Summarizer interface.
type SummarizeFunc func(ctx context.Context, window []*types.Event) (string, error)

// Summarize implements Summarizer.
func (f SummarizeFunc) Summarize(ctx context.Context, window []*types.Event) (string, error) {
	return f(ctx, window)
}

// LLMSummarizer is the built-in Summarizer. It renders the window into a
// prompt and asks Claude for a summary using the streaming API.
type LLMSummarizer struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	prompt    string
}

// NewLLMSummarizer creates an LLMSummarizer with the given client and
// configuration. An empty prompt falls back to DefaultPrompt, and
// non-positive maxTokens falls back to DefaultMaxTokens.
func NewLLMSummarizer(client *anthropic.Client, model string, maxTokens int, prompt string) *LLMSummarizer {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &LLMSummarizer{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		prompt:    prompt,
	}
}

// Summarize generates a summary of the given events.
func (s *LLMSummarizer) Summarize(ctx context.Context, window []*types.Event) (string, error) {
	if len(window) == 0 {
		return "", ErrNotEnoughEvents
	}

	userPrompt := BuildPrompt(s.prompt, window)

	stream := s.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})

	message := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			return "", fmt.Errorf("%w: failed to accumulate stream: %v", ErrSummarizationFailed, err)
		}
	}

	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummarizationFailed, err)
	}

	var summary strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			summary.WriteString(text.Text)
		}
	}

	if summary.Len() == 0 {
		return "", fmt.Errorf("%w: empty response from summarizer", ErrSummarizationFailed)
	}

	return summary.String(), nil
}

var _ Summarizer = (*LLMSummarizer)(nil)
var _ Summarizer = (SummarizeFunc)(nil)
