package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/youssefsiam38/sessionlog/types"
)

func TestMemoryStore_CreateAndGetSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.CreateSession(ctx, "chat-1", map[string]any{"tier": "free"})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if id == "" {
		t.Fatal("CreateSession() returned empty ID")
	}

	sess, err := store.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if sess.Identifier != "chat-1" {
		t.Errorf("Identifier = %q, want chat-1", sess.Identifier)
	}
	if sess.Metadata["tier"] != "free" {
		t.Errorf("Metadata[tier] = %v, want free", sess.Metadata["tier"])
	}
	if sess.CompactionCount != 0 {
		t.Errorf("CompactionCount = %d, want 0", sess.CompactionCount)
	}
}

func TestMemoryStore_CreateSession_RequiresIdentifier(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.CreateSession(context.Background(), "", nil); err == nil {
		t.Error("CreateSession() with empty identifier succeeded, want error")
	}
}

func TestMemoryStore_GetSession_NotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.GetSession(context.Background(), uuid.New().String())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetSession() error = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStore_AppendEvent_AssignsSequence(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sessionID, _ := store.CreateSession(ctx, "chat", nil)

	for i := 0; i < 5; i++ {
		ev := types.NewTextEvent("user", fmt.Sprintf("msg %d", i))
		ev.SessionID = sessionID
		stored, err := store.AppendEvent(ctx, ev)
		if err != nil {
			t.Fatalf("AppendEvent() error = %v", err)
		}
		if stored.Sequence != int64(i) {
			t.Errorf("Sequence = %d, want %d", stored.Sequence, i)
		}
		if stored.ID == uuid.Nil {
			t.Error("AppendEvent() did not assign an ID")
		}
		if stored.CreatedAt.IsZero() {
			t.Error("AppendEvent() did not assign CreatedAt")
		}
	}
}

func TestMemoryStore_AppendEvent_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.AppendEvent(ctx, nil); !errors.Is(err, ErrNilEvent) {
		t.Errorf("AppendEvent(nil) error = %v, want ErrNilEvent", err)
	}

	ev := types.NewTextEvent("user", "hi")
	ev.SessionID = uuid.New().String()
	if _, err := store.AppendEvent(ctx, ev); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("AppendEvent() error = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStore_GetEvents_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sessionID, _ := store.CreateSession(ctx, "chat", nil)

	ev := types.NewTextEvent("user", "original")
	ev.SessionID = sessionID
	if _, err := store.AppendEvent(ctx, ev); err != nil {
		t.Fatalf("AppendEvent() error = %v", err)
	}

	first, _ := store.GetEvents(ctx, sessionID)
	first[0].Author = "mutated"

	second, _ := store.GetEvents(ctx, sessionID)
	if second[0].Author != "user" {
		t.Error("mutating a returned event leaked into the store")
	}
}

func TestMemoryStore_GetEventsSince(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sessionID, _ := store.CreateSession(ctx, "chat", nil)

	for i := 0; i < 5; i++ {
		ev := types.NewTextEvent("user", fmt.Sprintf("msg %d", i))
		ev.SessionID = sessionID
		if _, err := store.AppendEvent(ctx, ev); err != nil {
			t.Fatalf("AppendEvent() error = %v", err)
		}
	}

	since, err := store.GetEventsSince(ctx, sessionID, 2)
	if err != nil {
		t.Fatalf("GetEventsSince() error = %v", err)
	}
	if len(since) != 2 {
		t.Fatalf("len = %d, want 2", len(since))
	}
	if since[0].Sequence != 3 || since[1].Sequence != 4 {
		t.Errorf("sequences = %d, %d, want 3, 4", since[0].Sequence, since[1].Sequence)
	}
}

func TestMemoryStore_GetCompactionEvents(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sessionID, _ := store.CreateSession(ctx, "chat", nil)

	for i := 0; i < 3; i++ {
		ev := types.NewTextEvent("user", "msg")
		ev.SessionID = sessionID
		if _, err := store.AppendEvent(ctx, ev); err != nil {
			t.Fatalf("AppendEvent() error = %v", err)
		}
	}

	comp := &types.Event{
		SessionID: sessionID,
		Author:    "system",
		Content:   []types.Part{{Type: types.PartTypeText, Text: "Session history compacted"}},
		Actions: types.Actions{
			Compaction: &types.Compaction{StartIndex: 0, EndIndex: 2, CompactedContent: "summary", CreatedAt: time.Now()},
		},
	}
	if _, err := store.AppendEvent(ctx, comp); err != nil {
		t.Fatalf("AppendEvent() error = %v", err)
	}

	got, err := store.GetCompactionEvents(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetCompactionEvents() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Actions.Compaction.CompactedContent != "summary" {
		t.Errorf("CompactedContent = %q, want summary", got[0].Actions.Compaction.CompactedContent)
	}
}

func TestMemoryStore_UpdateSessionCompactionCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sessionID, _ := store.CreateSession(ctx, "chat", nil)

	if err := store.UpdateSessionCompactionCount(ctx, sessionID); err != nil {
		t.Fatalf("UpdateSessionCompactionCount() error = %v", err)
	}
	if err := store.UpdateSessionCompactionCount(ctx, sessionID); err != nil {
		t.Fatalf("UpdateSessionCompactionCount() error = %v", err)
	}

	sess, _ := store.GetSession(ctx, sessionID)
	if sess.CompactionCount != 2 {
		t.Errorf("CompactionCount = %d, want 2", sess.CompactionCount)
	}
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sessionID, _ := store.CreateSession(ctx, "chat", nil)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			ev := types.NewTextEvent("user", fmt.Sprintf("msg %d", i))
			ev.SessionID = sessionID
			if _, err := store.AppendEvent(ctx, ev); err != nil {
				t.Errorf("AppendEvent() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	events, err := store.GetEvents(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}
	if len(events) != n {
		t.Fatalf("len = %d, want %d", len(events), n)
	}
	seen := make(map[int64]bool, n)
	for _, ev := range events {
		if seen[ev.Sequence] {
			t.Fatalf("sequence %d assigned twice", ev.Sequence)
		}
		seen[ev.Sequence] = true
	}
}
