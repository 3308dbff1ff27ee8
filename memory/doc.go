// Package memory implements the append-only step log that records an agent
// run and re-serializes it into model-consumable prompts.
//
// Every unit of history is a Step (system prompt, task, planning, action,
// final answer). A step renders two ways:
//
//   - ToRecord: a field->value mapping for export and inspection. Optional
//     fields are present with explicit nils so the field set is stable
//     across steps of the same kind.
//   - ToMessages: an ordered sequence of role-tagged messages suitable for
//     replay into a model prompt. summaryMode suppresses verbose fields
//     (raw input messages, full plan duplication) to keep replayed context
//     compact.
//
// AgentMemory owns the system prompt plus the ordered step sequence and is
// mutated only by the agent loop via Append. CallbackRegistry lets external
// observers react to newly appended steps of a given kind without being
// called by the loop directly.
package memory
