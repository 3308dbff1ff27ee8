package action

import (
	"fmt"
	"strings"
)

// Registry holds the ordered action set an agent was constructed with.
// Registration order determines the order in which Describe text is
// concatenated for the {tools} placeholder. The set is immutable after
// construction and safe to share across concurrent runs.
type Registry struct {
	ordered []Action
	byName  map[string]Action
}

// NewRegistry builds a registry from the given actions. Duplicate names are
// a configuration fault surfaced to the caller; the run never starts.
func NewRegistry(actions []Action) (*Registry, error) {
	r := &Registry{
		ordered: make([]Action, 0, len(actions)),
		byName:  make(map[string]Action, len(actions)),
	}
	for _, a := range actions {
		if a == nil {
			return nil, fmt.Errorf("action registry: nil action")
		}
		name := a.Name()
		if name == "" {
			return nil, fmt.Errorf("action registry: action with empty name")
		}
		if _, exists := r.byName[name]; exists {
			return nil, fmt.Errorf("action registry: duplicate action name %q", name)
		}
		r.byName[name] = a
		r.ordered = append(r.ordered, a)
	}
	return r, nil
}

// Get returns the action registered under name.
func (r *Registry) Get(name string) (Action, error) {
	a, ok := r.byName[name]
	if !ok {
		return nil, &LookupError{Name: name}
	}
	return a, nil
}

// Len returns the number of registered actions.
func (r *Registry) Len() int { return len(r.ordered) }

// All returns the actions in registration order.
func (r *Registry) All() []Action {
	out := make([]Action, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// DescribeAll newline-joins the Describe rendering of every action in
// registration order. This is the text substituted for {tools}.
func (r *Registry) DescribeAll() string {
	parts := make([]string, len(r.ordered))
	for i, a := range r.ordered {
		parts[i] = Describe(a)
	}
	return strings.Join(parts, "\n")
}
