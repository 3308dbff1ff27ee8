package core

import (
	"fmt"
	"time"
)

// Timing brackets an operation with two monotonic clock samples.
// EndTime is expected to be >= StartTime; construction does not enforce it,
// Validate flags the inconsistency.
type Timing struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// NewTiming samples the start of an operation, leaving EndTime zero until
// Stop is called.
func NewTiming() Timing { return Timing{StartTime: time.Now()} }

// Stop samples the end of the operation and returns the updated timing.
func (t Timing) Stop() Timing {
	t.EndTime = time.Now()
	return t
}

// Duration returns EndTime - StartTime. Negative when the samples were
// supplied out of order.
func (t Timing) Duration() time.Duration { return t.EndTime.Sub(t.StartTime) }

// Validate reports whether the samples are consistent.
func (t Timing) Validate() error {
	if t.Duration() < 0 {
		return fmt.Errorf("timing: end_time precedes start_time by %s", -t.Duration())
	}
	return nil
}

// String renders the timing for logs and replay output.
func (t Timing) String() string {
	return fmt.Sprintf("Timing(start_time=%s, end_time=%s, duration=%s)",
		t.StartTime.Format(time.RFC3339Nano), t.EndTime.Format(time.RFC3339Nano), t.Duration())
}

// Record returns the export form of the timing.
func (t Timing) Record() map[string]any {
	return map[string]any{
		"start_time": t.StartTime,
		"end_time":   t.EndTime,
		"duration":   t.Duration().Seconds(),
	}
}

// TokenUsage captures token accounting for one model call. TotalTokens is
// expected to equal PromptTokens + CompletionTokens; callers must supply
// consistent values, the struct does not enforce the sum.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewTokenUsage builds a consistent TokenUsage from prompt and completion counts.
func NewTokenUsage(prompt, completion int) TokenUsage {
	return TokenUsage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion}
}

// Add merges another usage sample into the receiver and returns the result.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
	}
}

// Record returns the export form of the usage.
func (u TokenUsage) Record() map[string]any {
	return map[string]any{
		"prompt_tokens":     u.PromptTokens,
		"completion_tokens": u.CompletionTokens,
		"total_tokens":      u.TotalTokens,
	}
}
