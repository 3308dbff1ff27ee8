package model

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stridekit/stride/core"
)

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Result is the outcome of a batch generation call.
type Result struct {
	Text  string
	Usage *core.TokenUsage
}

// Model is the capability the agent loop drives for planning and
// generation. Implementations must be safe for concurrent use: one model
// handle is shared across concurrent runs.
type Model interface {
	// GenerateStream produces text chunks in arrival order. Both channels
	// are closed when the stream ends; a transport or parse failure is
	// delivered on the error channel as *ProviderError.
	GenerateStream(ctx context.Context, messages []core.Message) (<-chan string, <-chan error)

	// Generate produces the full completion in one shot, with token usage
	// when the provider reports it.
	Generate(ctx context.Context, messages []core.Message) (*Result, error)

	// Info returns metadata about the model implementation.
	Info() Info
}

// ProviderError reports a model call transport or parse failure. The loop
// recovers locally (empty chunk substitution); only construction-time
// faults are fatal to a run.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("model provider %s: %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ProviderError) Unwrap() error { return e.Err }

// Drain consumes a chunk stream to completion and concatenates the chunks
// in order. Generate may be defined in terms of Drain for providers whose
// batch path is just a drained stream.
func Drain(chunks <-chan string, errs <-chan error) (string, error) {
	var b strings.Builder
	for chunk := range chunks {
		b.WriteString(chunk)
	}
	if err, ok := <-errs; ok && err != nil {
		return b.String(), err
	}
	return b.String(), nil
}

// MockModel is a scripted in-memory Model for tests and examples. Outputs
// are consumed FIFO; once the script is exhausted a canned fallback echoes
// the last input message.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	script   []string
	requests [][]core.Message
	failWith error
	// ChunkSize controls streaming granularity; 0 streams the whole output
	// as a single chunk.
	ChunkSize int
	// Usage, when set, is reported by Generate.
	Usage *core.TokenUsage
}

// NewMockModel constructs a MockModel that replays the scripted outputs in
// order.
func NewMockModel(script ...string) *MockModel {
	return &MockModel{info: Info{Name: "mock", Provider: "mock"}, script: script}
}

// FailWith makes every subsequent call fail with a *ProviderError wrapping err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Requests returns every message list the model has been called with.
func (m *MockModel) Requests() [][]core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]core.Message, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockModel) next(messages []core.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]core.Message, len(messages))
	copy(snapshot, messages)
	m.requests = append(m.requests, snapshot)
	if m.failWith != nil {
		return "", &ProviderError{Provider: "mock", Err: m.failWith}
	}
	if len(m.script) > 0 {
		out := m.script[0]
		m.script = m.script[1:]
		return out, nil
	}
	last := ""
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}
	return fmt.Sprintf("Mock response to: %s", last), nil
}

// GenerateStream implements Model, emitting the scripted output in
// ChunkSize pieces.
func (m *MockModel) GenerateStream(ctx context.Context, messages []core.Message) (<-chan string, <-chan error) {
	out := make(chan string, 16)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		full, err := m.next(messages)
		if err != nil {
			errCh <- err
			return
		}
		size := m.ChunkSize
		if size <= 0 {
			size = len(full)
		}
		for start := 0; start < len(full); start += size {
			end := start + size
			if end > len(full) {
				end = len(full)
			}
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- full[start:end]:
			}
		}
	}()
	return out, errCh
}

// Generate implements Model by draining the stream.
func (m *MockModel) Generate(ctx context.Context, messages []core.Message) (*Result, error) {
	text, err := Drain(m.GenerateStream(ctx, messages))
	if err != nil {
		return nil, err
	}
	return &Result{Text: text, Usage: m.Usage}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
