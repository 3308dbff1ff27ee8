package action

import (
	"context"
	"fmt"
	"strings"
)

// Observation is the opaque result text returned by an action invocation.
type Observation string

// Parameter declares one accepted input: its name, the dtype it must carry
// (compared case-insensitively) and a description shown to the model.
type Parameter struct {
	Name        string `json:"name"`
	DType       string `json:"dtype"`
	Description string `json:"description"`
}

// Input is a caller supplied candidate for parameter matching.
type Input struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
	DType string `json:"dtype"`
}

// Action is a named, described capability an agent can invoke. Identity is
// the name; a Registry rejects duplicates at construction time.
//
// Implementations must be safe for concurrent use: the same action set is
// shared across concurrent runs.
type Action interface {
	// Name returns the unique action identifier used for routing.
	Name() string

	// Description returns the natural language description shown to models.
	Description() string

	// Parameters returns the declared schema. Order is significant: it
	// determines the order of matched inputs when a fixed-order signature
	// is needed.
	Parameters() []Parameter

	// OutputType names the declared result type for prompt rendering.
	OutputType() string

	// Act invokes the action with inputs already matched by PrepareInputs.
	// It must never require inputs beyond the declared parameters and must
	// fail with *InvocationError on any internal fault.
	Act(ctx context.Context, args map[string]any) (Observation, error)
}

// LookupError reports a requested action name not found among registered
// actions. It is recorded on the action step, never raised out of the loop.
type LookupError struct {
	Name string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("action %q is not registered", e.Name)
}

// InvocationError reports a failure inside an action's own call, carrying
// the action name and the underlying cause.
type InvocationError struct {
	Action string
	Err    error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("action %q failed: %v", e.Action, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *InvocationError) Unwrap() error { return e.Err }

// Describe renders an action's contract (name, description, parameters,
// output type) for inclusion in planning prompts.
func Describe(a Action) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s: %s\n", a.Name(), a.Description())
	b.WriteString("  Takes inputs:")
	params := a.Parameters()
	if len(params) == 0 {
		b.WriteString(" none")
	}
	b.WriteString("\n")
	for _, p := range params {
		fmt.Fprintf(&b, "    %s (%s): %s\n", p.Name, p.DType, p.Description)
	}
	fmt.Fprintf(&b, "  Returns an output of type: %s", a.OutputType())
	return b.String()
}
