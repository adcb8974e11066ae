package compaction

import (
	"github.com/youssefsiam38/sessionlog/types"
)

// Window is the contiguous slice of the log selected for one compaction pass.
// Start and End are inclusive sequence indices; Events holds the
// non-compaction events inside that range in order.
type Window struct {
	Start  int64
	End    int64
	Events []*types.Event
}

// lastCompactionEnd returns the EndIndex of the most recent compaction
// record, or -1 if the log has never been compacted.
func lastCompactionEnd(events []*types.Event) int64 {
	end := int64(-1)
	for _, ev := range events {
		if ev.Actions.Compaction != nil && ev.Actions.Compaction.EndIndex > end {
			end = ev.Actions.Compaction.EndIndex
		}
	}
	return end
}

// eventsSinceBoundary counts the non-compaction events with sequence greater
// than the last compaction boundary.
func eventsSinceBoundary(events []*types.Event, boundary int64) int {
	count := 0
	for _, ev := range events {
		if ev.Actions.Compaction == nil && ev.Sequence > boundary {
			count++
		}
	}
	return count
}

// due reports whether enough new events have accumulated since the last
// compaction boundary to trigger another pass. A non-positive interval
// disables compaction entirely.
func due(events []*types.Event, interval int) bool {
	if interval <= 0 {
		return false
	}
	return eventsSinceBoundary(events, lastCompactionEnd(events)) >= interval
}

// selectWindow picks the next compaction window.
//
// The window ends at the newest non-compaction event and starts overlap
// events before the last compaction boundary's successor, clamped to zero:
//
//	start = max(lastEnd + 1 - overlap, 0)
//	end   = sequence of the newest non-compaction event
//
// The event whose append triggered the pass is therefore included in the
// window. Compaction events inside [start, end] are excluded from the window
// contents; their indices still count toward the range so successive ranges
// share exactly the overlap.
//
// Returns ok=false when no events newer than the boundary exist.
func selectWindow(events []*types.Event, overlap int) (Window, bool) {
	boundary := lastCompactionEnd(events)

	end := int64(-1)
	for _, ev := range events {
		if ev.Actions.Compaction == nil && ev.Sequence > end {
			end = ev.Sequence
		}
	}
	if end <= boundary {
		return Window{}, false
	}

	start := boundary + 1 - int64(overlap)
	if start < 0 {
		start = 0
	}

	window := Window{Start: start, End: end}
	for _, ev := range events {
		if ev.Actions.Compaction != nil {
			continue
		}
		if ev.Sequence >= start && ev.Sequence <= end {
			window.Events = append(window.Events, ev)
		}
	}

	return window, true
}
