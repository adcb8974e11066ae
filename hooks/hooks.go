package hooks

import (
	"context"
	"sync"

	"github.com/youssefsiam38/sessionlog/compaction"
	"github.com/youssefsiam38/sessionlog/types"
)

// BeforeAppendHook is called before an event is appended to the log
type BeforeAppendHook func(ctx context.Context, event *types.Event) error

// AfterAppendHook is called after an event has been appended to the log
type AfterAppendHook func(ctx context.Context, event *types.Event) error

// BeforeCompactionHook is called before a compaction pass
type BeforeCompactionHook func(ctx context.Context, sessionID string) error

// AfterCompactionHook is called after a successful compaction pass
type AfterCompactionHook func(ctx context.Context, result *compaction.Result) error

// Registry holds all registered hooks
type Registry struct {
	mu               sync.RWMutex
	beforeAppend     []BeforeAppendHook
	afterAppend      []AfterAppendHook
	beforeCompaction []BeforeCompactionHook
	afterCompaction  []AfterCompactionHook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{
		beforeAppend:     []BeforeAppendHook{},
		afterAppend:      []AfterAppendHook{},
		beforeCompaction: []BeforeCompactionHook{},
		afterCompaction:  []AfterCompactionHook{},
	}
}

// OnBeforeAppend registers a hook to be called before an append
func (r *Registry) OnBeforeAppend(hook BeforeAppendHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeAppend = append(r.beforeAppend, hook)
}

// OnAfterAppend registers a hook to be called after an append
func (r *Registry) OnAfterAppend(hook AfterAppendHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterAppend = append(r.afterAppend, hook)
}

// OnBeforeCompaction registers a hook to be called before compaction
func (r *Registry) OnBeforeCompaction(hook BeforeCompactionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeCompaction = append(r.beforeCompaction, hook)
}

// OnAfterCompaction registers a hook to be called after compaction
func (r *Registry) OnAfterCompaction(hook AfterCompactionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterCompaction = append(r.afterCompaction, hook)
}

// TriggerBeforeAppend calls all registered before-append hooks
func (r *Registry) TriggerBeforeAppend(ctx context.Context, event *types.Event) error {
	r.mu.RLock()
	hooks := make([]BeforeAppendHook, len(r.beforeAppend))
	copy(hooks, r.beforeAppend)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterAppend calls all registered after-append hooks
func (r *Registry) TriggerAfterAppend(ctx context.Context, event *types.Event) error {
	r.mu.RLock()
	hooks := make([]AfterAppendHook, len(r.afterAppend))
	copy(hooks, r.afterAppend)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// TriggerBeforeCompaction calls all registered before-compaction hooks
func (r *Registry) TriggerBeforeCompaction(ctx context.Context, sessionID string) error {
	r.mu.RLock()
	hooks := make([]BeforeCompactionHook, len(r.beforeCompaction))
	copy(hooks, r.beforeCompaction)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, sessionID); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterCompaction calls all registered after-compaction hooks
func (r *Registry) TriggerAfterCompaction(ctx context.Context, result *compaction.Result) error {
	r.mu.RLock()
	hooks := make([]AfterCompactionHook, len(r.afterCompaction))
	copy(hooks, r.afterCompaction)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, result); err != nil {
			return err
		}
	}
	return nil
}
