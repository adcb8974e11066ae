package sessionlog

import (
	"testing"
	"time"

	"github.com/youssefsiam38/sessionlog/types"
)

func textEventAt(seq int64, author, text string) *types.Event {
	ev := types.NewTextEvent(author, text)
	ev.Sequence = seq
	return ev
}

func compactionEventAt(seq, start, end int64, summary string) *types.Event {
	return &types.Event{
		Sequence: seq,
		Author:   "system",
		Content:  []types.Part{{Type: types.PartTypeText, Text: "Session history compacted"}},
		Actions: types.Actions{
			Compaction: &types.Compaction{
				StartIndex:       start,
				EndIndex:         end,
				CompactedContent: summary,
				CreatedAt:        time.Now(),
			},
		},
	}
}

func TestFilterForContext_NoCompactions(t *testing.T) {
	events := []*types.Event{
		textEventAt(0, "user", "a"),
		textEventAt(1, "agent", "b"),
	}

	got := FilterForContext(events)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestFilterForContext_SkipsCoveredOriginals(t *testing.T) {
	events := []*types.Event{
		textEventAt(0, "user", "a"),
		textEventAt(1, "agent", "b"),
		textEventAt(2, "user", "c"),
		compactionEventAt(3, 0, 2, "summary"),
		textEventAt(4, "user", "d"),
	}

	got := FilterForContext(events)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].IsCompaction() {
		t.Error("first context event should be the compaction")
	}
	if got[1].Sequence != 4 {
		t.Errorf("second context event seq = %d, want 4", got[1].Sequence)
	}
}

func TestFilterForContext_OverlappingRanges(t *testing.T) {
	// Second compaction's range starts inside the first's; both summaries are
	// kept and every covered original is dropped.
	events := []*types.Event{
		textEventAt(0, "user", "a"),
		textEventAt(1, "agent", "b"),
		textEventAt(2, "user", "c"),
		compactionEventAt(3, 0, 2, "first"),
		textEventAt(4, "user", "d"),
		textEventAt(5, "agent", "e"),
		textEventAt(6, "user", "f"),
		compactionEventAt(7, 2, 6, "second"),
		textEventAt(8, "user", "g"),
	}

	got := FilterForContext(events)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if !got[0].IsCompaction() || got[0].Actions.Compaction.CompactedContent != "first" {
		t.Error("first summary missing from context")
	}
	if !got[1].IsCompaction() || got[1].Actions.Compaction.CompactedContent != "second" {
		t.Error("second summary missing from context")
	}
	if got[2].Sequence != 8 {
		t.Errorf("trailing event seq = %d, want 8", got[2].Sequence)
	}
}

func TestFilterForContext_PreservesOrder(t *testing.T) {
	events := []*types.Event{
		textEventAt(0, "user", "a"),
		compactionEventAt(1, 0, 0, "s"),
		textEventAt(2, "user", "b"),
		textEventAt(3, "agent", "c"),
	}

	got := FilterForContext(events)
	var last int64 = -1
	for _, ev := range got {
		if ev.Sequence <= last {
			t.Fatalf("order not preserved: %d after %d", ev.Sequence, last)
		}
		last = ev.Sequence
	}
}
