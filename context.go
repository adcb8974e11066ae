package sessionlog

import (
	"github.com/youssefsiam38/sessionlog/types"
)

// FilterForContext reduces a full event log to the events an LLM context
// should be built from. Compaction events are kept as stand-ins for the
// ranges they cover; original events inside any covered range are skipped.
// Events outside every range pass through unchanged, preserving order.
//
// When compaction ranges overlap, later compactions win: an event covered by
// any compaction is dropped, and every compaction event is kept, so the
// overlap region is represented by both summaries in sequence order.
func FilterForContext(events []*types.Event) []*types.Event {
	var compactions []*types.Compaction
	for _, e := range events {
		if e.IsCompaction() {
			compactions = append(compactions, e.Actions.Compaction)
		}
	}

	if len(compactions) == 0 {
		return events
	}

	filtered := make([]*types.Event, 0, len(events))
	for _, e := range events {
		if e.IsCompaction() {
			filtered = append(filtered, e)
			continue
		}
		covered := false
		for _, c := range compactions {
			if c.Covers(e.Sequence) {
				covered = true
				break
			}
		}
		if !covered {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
