package pipeline

import (
	"errors"
	"fmt"
	"sync"
)

// Sentinel errors for the pipeline package.
var (
	// ErrStageAlreadyRegistered is returned when registering a duplicate stage.
	ErrStageAlreadyRegistered = errors.New("stage already registered")

	// ErrStageNotFound is returned for an unknown stage name.
	ErrStageNotFound = errors.New("stage not found")

	// ErrDependencyCycle is returned when stage dependencies form a cycle.
	ErrDependencyCycle = errors.New("dependency cycle detected")
)

// Registry holds the stages of a run.
type Registry struct {
	mu     sync.RWMutex
	stages map[string]Stage
	order  []string // registration order
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{stages: make(map[string]Stage)}
}

// Register adds a stage.
func (r *Registry) Register(s Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.stages[name]; exists {
		return fmt.Errorf("%w: %s", ErrStageAlreadyRegistered, name)
	}
	r.stages[name] = s
	r.order = append(r.order, name)
	return nil
}

// Get returns a stage by name.
func (r *Registry) Get(name string) (Stage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stages[name]
	return s, ok
}

// Names returns stage names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Ordered returns the named stages (all stages when none are named) sorted
// so each runs after the dependencies it shares with the selection.
// Dependencies outside the selection are assumed to be satisfied by the
// caller, e.g. by loading a previous run's output into State.
func (r *Registry) Ordered(names ...string) ([]Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(names) == 0 {
		names = r.order
	}
	selected := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := r.stages[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrStageNotFound, name)
		}
		selected[name] = true
	}

	// Kahn's algorithm over the selection, stable in registration order
	inDegree := make(map[string]int, len(selected))
	for name := range selected {
		for _, dep := range r.stages[name].Dependencies() {
			if _, ok := r.stages[dep]; !ok {
				return nil, fmt.Errorf("%w: stage %q depends on %q", ErrStageNotFound, name, dep)
			}
			if selected[dep] {
				inDegree[name]++
			}
		}
	}

	var queue []string
	for _, name := range r.order {
		if selected[name] && inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	ordered := make([]Stage, 0, len(selected))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		ordered = append(ordered, r.stages[name])

		for _, other := range r.order {
			if !selected[other] {
				continue
			}
			for _, dep := range r.stages[other].Dependencies() {
				if dep == name {
					inDegree[other]--
					if inDegree[other] == 0 {
						queue = append(queue, other)
					}
				}
			}
		}
	}

	if len(ordered) != len(selected) {
		return nil, ErrDependencyCycle
	}
	return ordered, nil
}
