package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/youssefsiam38/sessionlog/compaction"
	"github.com/youssefsiam38/sessionlog/types"
)

func TestRegistry_TriggerOrder(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	var calls []int
	r.OnBeforeAppend(func(ctx context.Context, ev *types.Event) error {
		calls = append(calls, 1)
		return nil
	})
	r.OnBeforeAppend(func(ctx context.Context, ev *types.Event) error {
		calls = append(calls, 2)
		return nil
	})

	if err := r.TriggerBeforeAppend(ctx, types.NewTextEvent("user", "hi")); err != nil {
		t.Fatalf("TriggerBeforeAppend() error = %v", err)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("calls = %v, want [1 2] in registration order", calls)
	}
}

func TestRegistry_ErrorStopsChain(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	boom := errors.New("rejected")
	var secondCalled bool
	r.OnBeforeAppend(func(ctx context.Context, ev *types.Event) error {
		return boom
	})
	r.OnBeforeAppend(func(ctx context.Context, ev *types.Event) error {
		secondCalled = true
		return nil
	})

	err := r.TriggerBeforeAppend(ctx, types.NewTextEvent("user", "hi"))
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	if secondCalled {
		t.Error("hook after a failing hook was called")
	}
}

func TestRegistry_EmptyTriggersAreNoOps(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	if err := r.TriggerBeforeAppend(ctx, types.NewTextEvent("user", "hi")); err != nil {
		t.Errorf("TriggerBeforeAppend() error = %v", err)
	}
	if err := r.TriggerAfterAppend(ctx, types.NewTextEvent("user", "hi")); err != nil {
		t.Errorf("TriggerAfterAppend() error = %v", err)
	}
	if err := r.TriggerBeforeCompaction(ctx, "session"); err != nil {
		t.Errorf("TriggerBeforeCompaction() error = %v", err)
	}
	if err := r.TriggerAfterCompaction(ctx, &compaction.Result{}); err != nil {
		t.Errorf("TriggerAfterCompaction() error = %v", err)
	}
}
