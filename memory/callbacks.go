package memory

import "sync"

// Callback observes a newly appended step. The concrete step is passed; the
// observer type-asserts to the variant it registered for when it needs the
// full shape.
type Callback func(step Step)

// CallbackRegistry maps step kinds to ordered observer lists. It decouples
// step production (the agent loop) from step consumption (UIs, exporters):
// observers react to memory growth without the loop calling them directly.
//
// Dispatch is by StepKind tag, never by runtime type identity.
type CallbackRegistry struct {
	mu        sync.RWMutex
	callbacks map[StepKind][]Callback
}

// NewCallbackRegistry creates an empty registry.
func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{callbacks: make(map[StepKind][]Callback)}
}

// Register appends an observer for the given step kind. Observers fire in
// registration order.
func (r *CallbackRegistry) Register(kind StepKind, cb Callback) {
	if cb == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks[kind] = append(r.callbacks[kind], cb)
}

// Notify invokes every callback registered for the step's kind, in
// registration order, passing the concrete step.
func (r *CallbackRegistry) Notify(step Step) {
	r.mu.RLock()
	cbs := r.callbacks[step.Kind()]
	r.mu.RUnlock()
	for _, cb := range cbs {
		cb(step)
	}
}
