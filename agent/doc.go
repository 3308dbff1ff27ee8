// Package agent implements the planning and execution loop that drives a
// task to completion.
//
// A run walks the states Idle -> Planning -> Generating -> (ActionDispatch)*
// and loops until a final answer is produced, the step budget is exhausted,
// the caller cancels, or a fatal fault occurs. Each iteration asks the
// model for a plan, generates the step's output from plan + task, parses
// tool calls out of the output, dispatches the matched actions and records
// everything in the agent's memory.
//
// Run exposes the result as a cancellable stream of text chunks: plan
// chunks as produced, then generation chunks, per iteration, strictly in
// production order. The channels are owned by the run goroutine; the
// loop's dependencies are handed to it as shared-immutable values, never
// as back-references into the Agent.
//
// One Agent owns one memory and serves one run at a time. Concurrent
// sessions get one Agent each; the Model and the action Registry are
// read-only and safely shared between them.
package agent
