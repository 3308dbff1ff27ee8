// Package action implements the capability layer that lets agents invoke
// structured actions (web search, computations, side effects) with typed,
// declared parameters and consistent error handling.
//
// An Action declares a name, a description, an ordered parameter schema and
// an output type; Describe renders that contract into the planning prompt.
// PrepareInputs matches caller supplied inputs against the schema before
// invocation: first match wins on (name, case-insensitive dtype), unmatched
// inputs are dropped silently. The permissive drop is a deliberate
// contract, not an error condition.
package action
