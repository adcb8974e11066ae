package compaction

import (
	"context"

	"github.com/youssefsiam38/sessionlog/types"
)

// GuardDecision is the outcome of a before-summarize guard.
type GuardDecision int

const (
	// GuardContinue lets the compaction pass proceed with the configured
	// summarizer.
	GuardContinue GuardDecision = iota

	// GuardOverride replaces the summarizer's output with the guard's
	// content; the summarizer is not invoked.
	GuardOverride
)

// GuardResult is the tagged result of a before-summarize guard:
// either Continue, or Override carrying replacement content.
type GuardResult struct {
	Decision GuardDecision
	Content  string
}

// Continue returns a GuardResult that lets the pass proceed.
func Continue() GuardResult {
	return GuardResult{Decision: GuardContinue}
}

// Override returns a GuardResult that substitutes content for the summary.
func Override(content string) GuardResult {
	return GuardResult{Decision: GuardOverride, Content: content}
}

// BeforeSummarizeGuard runs before the summarizer is invoked on a window.
// Returning an error aborts the pass with the log untouched.
type BeforeSummarizeGuard func(ctx context.Context, window []*types.Event) (GuardResult, error)
