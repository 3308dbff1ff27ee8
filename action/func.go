package action

import (
	"context"
	"errors"
)

// Func is a generic adapter that exposes a plain Go function as an Action.
//
// It holds the declared contract (name, description, parameters, output
// type) and normalizes error handling so callers always receive an
// *InvocationError on failure; an *InvocationError returned by the wrapped
// function is forwarded unchanged.
//
// A Func has no mutable state after construction and is safe for concurrent
// use.
type Func struct {
	name        string
	description string
	outputType  string
	params      []Parameter
	fn          func(ctx context.Context, args map[string]any) (Observation, error)
}

// NewFunc constructs a Func action from an explicit contract and function.
//
// Example:
//
//	echo := action.NewFunc(
//	  "echo", "Repeat the given text back.", "string",
//	  []action.Parameter{{Name: "text", DType: "string", Description: "Text to repeat"}},
//	  func(_ context.Context, args map[string]any) (action.Observation, error) {
//	    s, _ := args["text"].(string)
//	    return action.Observation(s), nil
//	  },
//	)
func NewFunc(
	name, description, outputType string,
	params []Parameter,
	fn func(ctx context.Context, args map[string]any) (Observation, error),
) *Func {
	return &Func{
		name:        name,
		description: description,
		outputType:  outputType,
		params:      params,
		fn:          fn,
	}
}

// Name implements Action.
func (f *Func) Name() string { return f.name }

// Description implements Action.
func (f *Func) Description() string { return f.description }

// Parameters implements Action.
func (f *Func) Parameters() []Parameter {
	out := make([]Parameter, len(f.params))
	copy(out, f.params)
	return out
}

// OutputType implements Action.
func (f *Func) OutputType() string { return f.outputType }

// Act implements Action, wrapping any failure as *InvocationError.
func (f *Func) Act(ctx context.Context, args map[string]any) (Observation, error) {
	obs, err := f.fn(ctx, args)
	if err != nil {
		var invErr *InvocationError
		if errors.As(err, &invErr) {
			return "", err
		}
		return "", &InvocationError{Action: f.name, Err: err}
	}
	return obs, nil
}
