package memory

import (
	"strings"
	"sync"

	"github.com/stridekit/stride/core"
)

// AgentMemory is the durable, replayable record of everything that happened
// in a run. It owns the system prompt plus an ordered, append-only step
// sequence and can re-render itself as a model-consumable prompt at any
// point.
//
// The log performs no validation of step numbering; the agent loop is the
// single writer and guarantees monotonicity. A mutex guards the slice so
// concurrent readers (export, replay) stay safe while a run appends.
type AgentMemory struct {
	mu           sync.RWMutex
	systemPrompt SystemPromptStep
	steps        []Step
}

// NewAgentMemory creates an empty memory holding the system prompt.
func NewAgentMemory(systemPrompt string) *AgentMemory {
	return &AgentMemory{systemPrompt: SystemPromptStep{SystemPrompt: systemPrompt}}
}

// SystemPrompt returns the retained system prompt step.
func (m *AgentMemory) SystemPrompt() SystemPromptStep {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.systemPrompt
}

// Append adds a step to the tail of the log.
func (m *AgentMemory) Append(step Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step)
}

// Reset clears the step sequence. The system prompt is retained.
func (m *AgentMemory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = nil
}

// Len returns the number of recorded steps (system prompt excluded).
func (m *AgentMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.steps)
}

// Steps returns a snapshot copy of the step sequence in order.
func (m *AgentMemory) Steps() []Step {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Step, len(m.steps))
	copy(out, m.steps)
	return out
}

// FullSteps returns every step's full record in order. An empty log yields
// an empty slice.
func (m *AgentMemory) FullSteps() []map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]map[string]any, len(m.steps))
	for i, s := range m.steps {
		out[i] = s.ToRecord()
	}
	return out
}

// SuccinctSteps returns each step's record with the model_input_messages
// field removed, preserving order. This is the bandwidth-saving form used
// for logging and export.
func (m *AgentMemory) SuccinctSteps() []map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]map[string]any, len(m.steps))
	for i, s := range m.steps {
		rec := s.ToRecord()
		delete(rec, "model_input_messages")
		out[i] = rec
	}
	return out
}

// Replay re-renders the entire log, system prompt first, as role-tagged
// messages for debug inspection or prompt reconstruction. Order follows the
// append order; each step contributes via ToMessages.
func (m *AgentMemory) Replay(summaryMode bool) []core.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.systemPrompt.ToMessages(summaryMode)
	for _, s := range m.steps {
		msgs = append(msgs, s.ToMessages(summaryMode)...)
	}
	return msgs
}

// FullCode concatenates, in step order, the code action of every action
// step that has one, joined by a blank line. Steps without a code action
// are skipped without breaking order.
func (m *AgentMemory) FullCode() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var snippets []string
	for _, s := range m.steps {
		if as, ok := s.(ActionStep); ok && as.CodeAction != nil {
			snippets = append(snippets, *as.CodeAction)
		}
	}
	return strings.Join(snippets, "\n\n")
}
