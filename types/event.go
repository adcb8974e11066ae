package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PartType represents the type of a content part
type PartType string

const (
	// PartTypeText represents plain text content
	PartTypeText PartType = "text"

	// PartTypeFunctionCall represents a function call requested by the agent
	PartTypeFunctionCall PartType = "function_call"

	// PartTypeFunctionResponse represents the result of a function call
	PartTypeFunctionResponse PartType = "function_response"
)

// Part represents one piece of content in an event
type Part struct {
	Type PartType `json:"type"`

	// Text content
	Text string `json:"text,omitempty"`

	// Function call content
	FunctionCall *FunctionCall `json:"function_call,omitempty"`

	// Function response content
	FunctionResponse *FunctionResponse `json:"function_response,omitempty"`
}

// FunctionCall represents a function invocation requested by the agent
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse represents the result of a function invocation
type FunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response,omitempty"`
}

// Compaction records that a contiguous range of events has been replaced,
// for context-building purposes, by a generated summary. The original events
// are never deleted; they are logically superseded by the event that carries
// this record.
type Compaction struct {
	// StartIndex is the sequence index of the first superseded event (inclusive).
	StartIndex int64 `json:"start_index"`

	// EndIndex is the sequence index of the last superseded event (inclusive).
	EndIndex int64 `json:"end_index"`

	// CompactedContent is the generated summary that stands in for the range.
	CompactedContent string `json:"compacted_content"`

	// CreatedAt is when the compaction was produced.
	CreatedAt time.Time `json:"created_at"`
}

// Covers reports whether the given sequence index falls within the
// compacted range.
func (c *Compaction) Covers(seq int64) bool {
	return seq >= c.StartIndex && seq <= c.EndIndex
}

// Actions holds optional action metadata attached to an event.
type Actions struct {
	// Compaction is set on synthetic events produced by a compaction pass.
	Compaction *Compaction `json:"compaction,omitempty"`
}

// Event is one immutable step in a conversation history.
//
// Events are totally ordered by Sequence, which is assigned by the store on
// append, is monotonic per session, and is never reused.
type Event struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	Sequence  int64     `json:"sequence"`
	Author    string    `json:"author"`
	Content   []Part    `json:"content"`
	Actions   Actions   `json:"actions"`
	CreatedAt time.Time `json:"created_at"`
}

// IsCompaction reports whether this event carries a compaction record.
func (e *Event) IsCompaction() bool {
	return e.Actions.Compaction != nil
}

// Text returns the concatenated text parts of the event, joined by newline.
// Function call and response parts are skipped.
func (e *Event) Text() string {
	var parts []string
	for _, p := range e.Content {
		if p.Type == PartTypeText && p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// NewTextEvent creates an event with a single text part.
// Sequence, ID, and CreatedAt are assigned by the store on append.
func NewTextEvent(author, text string) *Event {
	return &Event{
		Author:  author,
		Content: []Part{{Type: PartTypeText, Text: text}},
	}
}

// NewFunctionCallEvent creates an event with a single function call part.
func NewFunctionCallEvent(author string, call *FunctionCall) *Event {
	return &Event{
		Author:  author,
		Content: []Part{{Type: PartTypeFunctionCall, FunctionCall: call}},
	}
}

// NewFunctionResponseEvent creates an event with a single function response part.
func NewFunctionResponseEvent(author string, resp *FunctionResponse) *Event {
	return &Event{
		Author:  author,
		Content: []Part{{Type: PartTypeFunctionResponse, FunctionResponse: resp}},
	}
}
