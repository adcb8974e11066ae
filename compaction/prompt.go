package compaction

import (
	"fmt"
	"strings"

	"github.com/youssefsiam38/sessionlog/types"
)

// EventsPlaceholder is the substitution point in a summarization prompt
// template. The rendered window replaces it verbatim.
const EventsPlaceholder = "{events}"

// DefaultPrompt is the template used by the built-in LLM summarizer.
// It instructs the model to produce a summary that can stand in for the
// original events as conversational context.
const DefaultPrompt = `You are summarizing part of a conversation between an AI agent and a user so that it can be replaced by a compact summary while the conversation continues.

Summarize the following events:

<events>
{events}
</events>

Create a concise summary that:
1. Preserves all important decisions, facts, and outcomes
2. Removes repetitive discussion and tangential details
3. Maintains the conversation flow for future continuity
4. Keeps key points from both the user's and the agent's perspective

Focus on what happened, what was decided, and what the agent needs to remember to continue the conversation. Use bullet points for clarity and preserve exact names, identifiers, and error messages.`

// RenderEvents formats a window of events as "{author}: {text}" lines joined
// by newline, the form the prompt template substitutes for {events}.
func RenderEvents(window []*types.Event) string {
	lines := make([]string, 0, len(window))
	for _, ev := range window {
		text := renderEventContent(ev)
		if text == "" {
			continue
		}
		lines = append(lines, ev.Author+": "+text)
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt substitutes the rendered window into the template's {events}
// placeholder.
func BuildPrompt(template string, window []*types.Event) string {
	return strings.ReplaceAll(template, EventsPlaceholder, RenderEvents(window))
}

// renderEventContent extracts readable text from an event's content parts.
func renderEventContent(ev *types.Event) string {
	var parts []string

	for _, p := range ev.Content {
		switch p.Type {
		case types.PartTypeText:
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		case types.PartTypeFunctionCall:
			if p.FunctionCall != nil {
				parts = append(parts, fmt.Sprintf("[Call: %s, Args: %v]", p.FunctionCall.Name, p.FunctionCall.Args))
			}
		case types.PartTypeFunctionResponse:
			if p.FunctionResponse != nil {
				parts = append(parts, fmt.Sprintf("[Result for %s: %v]", p.FunctionResponse.Name, p.FunctionResponse.Response))
			}
		}
	}

	return strings.Join(parts, " ")
}
