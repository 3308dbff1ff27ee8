package memory

import (
	"encoding/json"
	"fmt"

	"github.com/stridekit/stride/core"
)

// StepKind discriminates the Step variants without runtime type identity.
type StepKind string

const (
	// KindSystemPrompt marks the system prompt step owned by AgentMemory.
	KindSystemPrompt StepKind = "system_prompt"
	// KindTask marks the step recording the caller supplied task.
	KindTask StepKind = "task"
	// KindPlanning marks a facts/plan production step.
	KindPlanning StepKind = "planning"
	// KindAction marks one loop iteration: model output, tool calls, observations.
	KindAction StepKind = "action"
	// KindFinalAnswer marks the terminal answer step.
	KindFinalAnswer StepKind = "final_answer"
)

// Step is one recorded unit of agent history. Implementations are value
// carriers; the log never mutates an appended step.
type Step interface {
	// Kind returns the variant tag used for callback dispatch and export.
	Kind() StepKind

	// ToRecord renders the step as a field->value mapping for export and
	// inspection. Optional fields are present with explicit nils so the
	// field set is stable across steps of the same kind.
	ToRecord() map[string]any

	// ToMessages renders the step as ordered role-tagged messages for
	// replay into a model prompt. summaryMode suppresses verbose fields.
	ToMessages(summaryMode bool) []core.Message
}

// ToolCall is a model-requested invocation of a named action with arguments.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Record returns the function-call shaped export form of the tool call.
func (c ToolCall) Record() map[string]any {
	args := make(map[string]any, len(c.Arguments))
	for k, v := range c.Arguments {
		args[k] = v
	}
	return map[string]any{
		"id":   c.ID,
		"type": "function",
		"function": map[string]any{
			"name":      c.Name,
			"arguments": args,
		},
	}
}

// SystemPromptStep carries the system prompt framing every replayed prompt.
type SystemPromptStep struct {
	SystemPrompt string
}

// Kind implements Step.
func (s SystemPromptStep) Kind() StepKind { return KindSystemPrompt }

// ToRecord implements Step.
func (s SystemPromptStep) ToRecord() map[string]any {
	return map[string]any{"system_prompt": s.SystemPrompt}
}

// ToMessages implements Step. Suppressed entirely in summary mode.
func (s SystemPromptStep) ToMessages(summaryMode bool) []core.Message {
	if summaryMode {
		return nil
	}
	return []core.Message{core.SystemMessage(s.SystemPrompt)}
}

// TaskStep records the natural-language task and optional image references.
type TaskStep struct {
	Task       string
	TaskImages []string
}

// Kind implements Step.
func (s TaskStep) Kind() StepKind { return KindTask }

// ToRecord implements Step.
func (s TaskStep) ToRecord() map[string]any {
	return map[string]any{
		"task":        s.Task,
		"task_images": stringsOrNil(s.TaskImages),
	}
}

// ToMessages implements Step.
func (s TaskStep) ToMessages(bool) []core.Message {
	msgs := []core.Message{core.UserMessage(fmt.Sprintf("New task:\n%s", s.Task))}
	for _, img := range s.TaskImages {
		msgs = append(msgs, core.UserMessage(fmt.Sprintf("Task image: %s", img)))
	}
	return msgs
}

// PlanningStep records the input messages used to generate a plan, the plan
// text and the timing/token accounting of the call.
type PlanningStep struct {
	ModelInputMessages []core.Message
	ModelOutputMessage *core.Message
	Plan               string
	Timing             core.Timing
	TokenUsage         *core.TokenUsage
}

// Kind implements Step.
func (s PlanningStep) Kind() StepKind { return KindPlanning }

// ToRecord implements Step.
func (s PlanningStep) ToRecord() map[string]any {
	return map[string]any{
		"model_input_messages": messagesOrNil(s.ModelInputMessages),
		"model_output_message": messageOrNil(s.ModelOutputMessage),
		"plan":                 s.Plan,
		"timing":               s.Timing.Record(),
		"token_usage":          usageOrNil(s.TokenUsage),
	}
}

// ToMessages implements Step. In summary mode the plan is suppressed to
// avoid duplicating it into every subsequent prompt.
func (s PlanningStep) ToMessages(summaryMode bool) []core.Message {
	if summaryMode {
		return nil
	}
	return []core.Message{
		core.AssistantMessage(s.Plan),
		core.UserMessage("Now proceed and carry out this plan."),
	}
}

// ActionStep records one loop iteration: the prompt it saw, the model
// output, any tool calls with their observations, and errors.
type ActionStep struct {
	StepNumber         int
	Timing             core.Timing
	ModelInputMessages []core.Message
	ToolCalls          []ToolCall
	Error              *string
	ModelOutputMessage *core.Message
	ModelOutput        *string
	CodeAction         *string
	Observations       *string
	ObservationsImages []string
	ActionOutput       any
	TokenUsage         *core.TokenUsage
	IsFinalAnswer      bool
}

// Kind implements Step.
func (s ActionStep) Kind() StepKind { return KindAction }

// ToRecord implements Step.
func (s ActionStep) ToRecord() map[string]any {
	var calls any
	if s.ToolCalls != nil {
		rendered := make([]map[string]any, len(s.ToolCalls))
		for i, c := range s.ToolCalls {
			rendered[i] = c.Record()
		}
		calls = rendered
	}
	return map[string]any{
		"step_number":          s.StepNumber,
		"timing":               s.Timing.Record(),
		"model_input_messages": messagesOrNil(s.ModelInputMessages),
		"tool_calls":           calls,
		"error":                stringOrNil(s.Error),
		"model_output_message": messageOrNil(s.ModelOutputMessage),
		"model_output":         stringOrNil(s.ModelOutput),
		"code_action":          stringOrNil(s.CodeAction),
		"observations":         stringOrNil(s.Observations),
		"observations_images":  stringsOrNil(s.ObservationsImages),
		"action_output":        s.ActionOutput,
		"token_usage":          usageOrNil(s.TokenUsage),
		"is_final_answer":      s.IsFinalAnswer,
	}
}

// ToMessages implements Step. The model output is suppressed in summary
// mode; tool calls, observations and errors always replay so the model can
// see what already happened and what went wrong.
func (s ActionStep) ToMessages(summaryMode bool) []core.Message {
	var msgs []core.Message
	if s.ModelOutput != nil && !summaryMode {
		msgs = append(msgs, core.AssistantMessage(*s.ModelOutput))
	}
	for _, call := range s.ToolCalls {
		payload, err := json.Marshal(call.Record())
		if err != nil {
			payload = []byte("{}")
		}
		msgs = append(msgs, core.ToolMessage(fmt.Sprintf("Calling tools:\n%s", payload)))
	}
	for _, img := range s.ObservationsImages {
		msgs = append(msgs, core.UserMessage(fmt.Sprintf("Observation image: %s", img)))
	}
	if s.Observations != nil {
		msgs = append(msgs, core.ToolMessage(fmt.Sprintf("Observations:\n%s", *s.Observations)))
	}
	if s.Error != nil {
		callID := "None"
		if len(s.ToolCalls) > 0 {
			callID = s.ToolCalls[0].ID
		}
		msgs = append(msgs, core.ToolMessage(fmt.Sprintf(
			"Call id: %s\nError occurred: %s\nNow let's retry: take care not to repeat previous errors! If you have retried several times, try a completely different approach.\n",
			callID, *s.Error)))
	}
	return msgs
}

// FinalAnswerStep carries the terminal output of a run.
type FinalAnswerStep struct {
	Output string
}

// Kind implements Step.
func (s FinalAnswerStep) Kind() StepKind { return KindFinalAnswer }

// ToRecord implements Step.
func (s FinalAnswerStep) ToRecord() map[string]any {
	return map[string]any{"output": s.Output}
}

// ToMessages implements Step. Suppressed in summary mode.
func (s FinalAnswerStep) ToMessages(summaryMode bool) []core.Message {
	if summaryMode {
		return nil
	}
	return []core.Message{core.AssistantMessage(s.Output)}
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringsOrNil(s []string) any {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func messagesOrNil(msgs []core.Message) any {
	if msgs == nil {
		return nil
	}
	return core.MessageRecords(msgs)
}

func messageOrNil(m *core.Message) any {
	if m == nil {
		return nil
	}
	return map[string]any{"role": string(m.Role), "content": m.Content}
}

func usageOrNil(u *core.TokenUsage) any {
	if u == nil {
		return nil
	}
	return u.Record()
}
