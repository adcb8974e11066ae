package compaction

import (
	"testing"
	"time"

	"github.com/youssefsiam38/sessionlog/types"
)

func textEvent(seq int64, author, text string) *types.Event {
	ev := types.NewTextEvent(author, text)
	ev.Sequence = seq
	return ev
}

func compactionEvent(seq, start, end int64) *types.Event {
	return &types.Event{
		Sequence: seq,
		Author:   "system",
		Content:  []types.Part{{Type: types.PartTypeText, Text: "Session history compacted"}},
		Actions: types.Actions{
			Compaction: &types.Compaction{
				StartIndex:       start,
				EndIndex:         end,
				CompactedContent: "summary",
				CreatedAt:        time.Now(),
			},
		},
	}
}

func TestLastCompactionEnd(t *testing.T) {
	tests := []struct {
		name   string
		events []*types.Event
		want   int64
	}{
		{
			name:   "no events",
			events: nil,
			want:   -1,
		},
		{
			name: "no compactions",
			events: []*types.Event{
				textEvent(0, "user", "a"),
				textEvent(1, "agent", "b"),
			},
			want: -1,
		},
		{
			name: "single compaction",
			events: []*types.Event{
				textEvent(0, "user", "a"),
				textEvent(1, "agent", "b"),
				compactionEvent(2, 0, 1),
			},
			want: 1,
		},
		{
			name: "multiple compactions uses latest",
			events: []*types.Event{
				compactionEvent(3, 0, 2),
				compactionEvent(7, 2, 6),
			},
			want: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastCompactionEnd(tt.events); got != tt.want {
				t.Errorf("lastCompactionEnd() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDue(t *testing.T) {
	tests := []struct {
		name     string
		events   []*types.Event
		interval int
		want     bool
	}{
		{
			name:     "disabled with zero interval",
			events:   []*types.Event{textEvent(0, "user", "a"), textEvent(1, "user", "b")},
			interval: 0,
			want:     false,
		},
		{
			name:     "disabled with negative interval",
			events:   []*types.Event{textEvent(0, "user", "a")},
			interval: -5,
			want:     false,
		},
		{
			name:     "below threshold",
			events:   []*types.Event{textEvent(0, "user", "a"), textEvent(1, "user", "b")},
			interval: 3,
			want:     false,
		},
		{
			name: "at threshold",
			events: []*types.Event{
				textEvent(0, "user", "a"),
				textEvent(1, "user", "b"),
				textEvent(2, "user", "c"),
			},
			interval: 3,
			want:     true,
		},
		{
			name: "compaction events do not count toward the trigger",
			events: []*types.Event{
				textEvent(0, "user", "a"),
				textEvent(1, "user", "b"),
				textEvent(2, "user", "c"),
				compactionEvent(3, 0, 2),
				textEvent(4, "user", "d"),
				textEvent(5, "user", "e"),
			},
			interval: 3,
			want:     false,
		},
		{
			name: "due again after boundary",
			events: []*types.Event{
				textEvent(0, "user", "a"),
				textEvent(1, "user", "b"),
				textEvent(2, "user", "c"),
				compactionEvent(3, 0, 2),
				textEvent(4, "user", "d"),
				textEvent(5, "user", "e"),
				textEvent(6, "user", "f"),
			},
			interval: 3,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := due(tt.events, tt.interval); got != tt.want {
				t.Errorf("due() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectWindow_FirstPass(t *testing.T) {
	events := []*types.Event{
		textEvent(0, "user", "a"),
		textEvent(1, "agent", "b"),
		textEvent(2, "user", "c"),
	}

	window, ok := selectWindow(events, 1)
	if !ok {
		t.Fatal("selectWindow() ok = false, want true")
	}
	if window.Start != 0 || window.End != 2 {
		t.Errorf("window = [%d, %d], want [0, 2]", window.Start, window.End)
	}
	if len(window.Events) != 3 {
		t.Errorf("len(window.Events) = %d, want 3", len(window.Events))
	}
}

func TestSelectWindow_OverlapAfterBoundary(t *testing.T) {
	events := []*types.Event{
		textEvent(0, "user", "a"),
		textEvent(1, "agent", "b"),
		textEvent(2, "user", "c"),
		compactionEvent(3, 0, 2),
		textEvent(4, "user", "d"),
		textEvent(5, "agent", "e"),
		textEvent(6, "user", "f"),
	}

	window, ok := selectWindow(events, 1)
	if !ok {
		t.Fatal("selectWindow() ok = false, want true")
	}
	// boundary is 2, overlap 1 -> start at 2; the compaction event at seq 3
	// is excluded from the contents.
	if window.Start != 2 || window.End != 6 {
		t.Errorf("window = [%d, %d], want [2, 6]", window.Start, window.End)
	}
	if len(window.Events) != 4 {
		t.Fatalf("len(window.Events) = %d, want 4", len(window.Events))
	}
	if window.Events[0].Sequence != 2 {
		t.Errorf("first window event seq = %d, want 2", window.Events[0].Sequence)
	}
	for _, ev := range window.Events {
		if ev.IsCompaction() {
			t.Error("window contents include a compaction event")
		}
	}
}

func TestSelectWindow_OverlapClampedToZero(t *testing.T) {
	events := []*types.Event{
		textEvent(0, "user", "a"),
		textEvent(1, "agent", "b"),
	}

	window, ok := selectWindow(events, 5)
	if !ok {
		t.Fatal("selectWindow() ok = false, want true")
	}
	if window.Start != 0 {
		t.Errorf("window.Start = %d, want 0", window.Start)
	}
}

func TestSelectWindow_NothingPastBoundary(t *testing.T) {
	events := []*types.Event{
		textEvent(0, "user", "a"),
		textEvent(1, "agent", "b"),
		compactionEvent(2, 0, 1),
	}

	if _, ok := selectWindow(events, 1); ok {
		t.Error("selectWindow() ok = true, want false when nothing follows the boundary")
	}
}

func TestSelectWindow_SuccessiveRangesShareOverlap(t *testing.T) {
	// Replay of three passes with interval 3, overlap 1. The expected ranges
	// are [0,2], [2,6], [6,10]: each range begins exactly one index before
	// the previous boundary's successor.
	events := []*types.Event{
		textEvent(0, "user", "e0"),
		textEvent(1, "agent", "e1"),
		textEvent(2, "user", "e2"),
	}

	window, ok := selectWindow(events, 1)
	if !ok || window.Start != 0 || window.End != 2 {
		t.Fatalf("first pass window = [%d, %d] ok=%v, want [0, 2] true", window.Start, window.End, ok)
	}

	events = append(events, compactionEvent(3, 0, 2),
		textEvent(4, "user", "e4"),
		textEvent(5, "agent", "e5"),
		textEvent(6, "user", "e6"),
	)

	window, ok = selectWindow(events, 1)
	if !ok || window.Start != 2 || window.End != 6 {
		t.Fatalf("second pass window = [%d, %d] ok=%v, want [2, 6] true", window.Start, window.End, ok)
	}

	events = append(events, compactionEvent(7, 2, 6),
		textEvent(8, "user", "e8"),
		textEvent(9, "agent", "e9"),
		textEvent(10, "user", "e10"),
	)

	window, ok = selectWindow(events, 1)
	if !ok || window.Start != 6 || window.End != 10 {
		t.Fatalf("third pass window = [%d, %d] ok=%v, want [6, 10] true", window.Start, window.End, ok)
	}
}
