package operations

import (
	"fmt"
)

// Registry holds the pipeline steps in execution order
type Registry struct {
	steps []Step
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a step. IDs must be unique.
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil Step")
	}
	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}
	if _, err := r.Get(id); err == nil {
		return fmt.Errorf("step with ID %s already registered", id)
	}

	r.steps = append(r.steps, step)
	return nil
}

// Get looks a step up by ID
func (r *Registry) Get(id string) (Step, error) {
	for _, s := range r.steps {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, NewNotFoundError(id)
}

// List returns the steps in execution order
func (r *Registry) List() []Step {
	return append([]Step(nil), r.steps...)
}

// ListIDs returns the step IDs in execution order
func (r *Registry) ListIDs() []string {
	ids := make([]string, len(r.steps))
	for i, s := range r.steps {
		ids[i] = s.ID()
	}
	return ids
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	return len(r.steps)
}
