package sessionlog

import (
	"fmt"
	"sync"
)

// ModelInfo contains model-specific parameters
type ModelInfo struct {
	MaxContextTokens int
	DefaultMaxTokens int
}

// ModelRegistry is an explicit lookup table mapping model IDs to their
// capabilities. It is injected into constructors rather than held as
// package-global state, so independent sessions can carry independent
// model catalogs.
type ModelRegistry struct {
	mu     sync.RWMutex
	models map[string]ModelInfo
}

// NewModelRegistry creates an empty registry
func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{models: make(map[string]ModelInfo)}
}

// DefaultModelRegistry returns a registry seeded with known Claude models
func DefaultModelRegistry() *ModelRegistry {
	r := NewModelRegistry()
	for name, info := range map[string]ModelInfo{
		// Claude 4 models
		"claude-sonnet-4-5-20250929": {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
		"claude-opus-4-5-20251101":   {MaxContextTokens: 200000, DefaultMaxTokens: 16384},
		// Claude 3.5 models
		"claude-3-5-sonnet-20241022": {MaxContextTokens: 200000, DefaultMaxTokens: 8192},
		"claude-3-5-haiku-20241022":  {MaxContextTokens: 200000, DefaultMaxTokens: 8192},
		// Claude 3 models
		"claude-3-opus-20240229":   {MaxContextTokens: 200000, DefaultMaxTokens: 4096},
		"claude-3-haiku-20240307":  {MaxContextTokens: 200000, DefaultMaxTokens: 4096},
	} {
		r.models[name] = info
	}
	return r
}

// Register adds a model to the registry
func (r *ModelRegistry) Register(name string, info ModelInfo) error {
	if name == "" {
		return fmt.Errorf("%w: model name is required", ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[name]; exists {
		return fmt.Errorf("%w: model %q already registered", ErrInvalidConfig, name)
	}

	r.models[name] = info
	return nil
}

// Lookup returns the info for a model, reporting whether it is known
func (r *ModelRegistry) Lookup(name string) (ModelInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.models[name]
	return info, ok
}

// LookupOrDefault returns the info for a model, using sensible defaults for
// unknown models
func (r *ModelRegistry) LookupOrDefault(name string) ModelInfo {
	if info, ok := r.Lookup(name); ok {
		return info
	}
	return ModelInfo{MaxContextTokens: 200000, DefaultMaxTokens: 8192}
}

// Names returns all registered model names
func (r *ModelRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	return names
}
