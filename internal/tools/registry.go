package tools

import (
	"fmt"
	"strings"
	"sync"
)

// Registry holds the tool catalog. Specs are immutable once registered and
// List returns them in registration order so the catalog presented to the
// LLM is identical on every reasoning round.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]ToolSpec
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[string]ToolSpec),
	}
}

// Register adds a spec. Returns ErrDuplicateTool when the name is taken.
func (r *Registry) Register(spec ToolSpec) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return fmt.Errorf("tool name is empty")
	}
	spec.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.specs[name] = spec
	r.order = append(r.order, name)
	return nil
}

// RegisterAll registers specs in slice order, stopping at the first error.
func (r *Registry) RegisterAll(specs []ToolSpec) error {
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the spec for name, or ErrUnknownTool.
func (r *Registry) Resolve(name string) (ToolSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[strings.TrimSpace(name)]
	if !ok {
		return ToolSpec{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return spec, nil
}

// List returns all specs in registration order.
func (r *Registry) List() []ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.specs[name])
	}
	return specs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
