// Package code defines the executor contract for code actions. The loop
// records every fenced code block a model emits; an Executor, when
// configured, runs that block and feeds the result back as an observation.
package code

import "context"

// Executor runs a code snippet produced by a model.
type Executor interface {
	// Execute runs the given code snippet and returns its output.
	Execute(ctx context.Context, code string) (string, error)
}

// Func adapts a plain function to the Executor interface.
type Func func(ctx context.Context, code string) (string, error)

// Execute implements Executor.
func (f Func) Execute(ctx context.Context, code string) (string, error) {
	return f(ctx, code)
}
