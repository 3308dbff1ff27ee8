package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stridekit/stride/action"
	"github.com/stridekit/stride/code"
	"github.com/stridekit/stride/memory"
	"github.com/stridekit/stride/model"
)

func echoAction() action.Action {
	return action.NewFunc(
		"echo", "Repeat the given text back.", "string",
		[]action.Parameter{{Name: "text", DType: "string", Description: "Text to repeat"}},
		func(_ context.Context, args map[string]any) (action.Observation, error) {
			s, _ := args["text"].(string)
			return action.Observation("echo: " + s), nil
		},
	)
}

func failingAction() action.Action {
	return action.NewFunc("broken", "Always fails.", "string", nil,
		func(context.Context, map[string]any) (action.Observation, error) {
			return "", fmt.Errorf("kaput")
		},
	)
}

func newTestAgent(t *testing.T, llm model.Model, maxSteps int, actions ...action.Action) *Agent {
	t.Helper()
	ag, err := New(llm, actions, func(o *Options) {
		o.MaxSteps = maxSteps
	})
	require.NoError(t, err)
	return ag
}

func TestNew_DuplicateActionNamesFatal(t *testing.T) {
	_, err := New(model.NewMockModel(), []action.Action{echoAction(), echoAction()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNew_InvalidConfigFatal(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)

	_, err = New(model.NewMockModel(), nil, func(o *Options) { o.MaxSteps = 0 })
	require.Error(t, err)
}

func TestNew_SystemPromptCarriesToolDescriptions(t *testing.T) {
	ag := newTestAgent(t, model.NewMockModel(), 1, echoAction())
	sys := ag.Memory().SystemPrompt().SystemPrompt
	assert.Contains(t, sys, "- echo: Repeat the given text back.")
	assert.NotContains(t, sys, "{tools}")
}

func TestRun_PlanThenGenerationStream(t *testing.T) {
	llm := model.NewMockModel("PLAN", "4")
	ag := newTestAgent(t, llm, 1)

	out, err := ag.RunSync(context.Background(), "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "PLAN4", out)

	steps := ag.Memory().Steps()
	require.Len(t, steps, 3)

	task, ok := steps[0].(memory.TaskStep)
	require.True(t, ok)
	assert.Equal(t, "What is 2+2?", task.Task)

	plan, ok := steps[1].(memory.PlanningStep)
	require.True(t, ok)
	assert.Equal(t, "PLAN", plan.Plan)

	act, ok := steps[2].(memory.ActionStep)
	require.True(t, ok)
	require.NotNil(t, act.ModelOutput)
	assert.Equal(t, "4", *act.ModelOutput)
	assert.Equal(t, 1, act.StepNumber)
	assert.False(t, act.IsFinalAnswer)
}

func TestRun_ChunkOrderPreserved(t *testing.T) {
	llm := model.NewMockModel("PLAN", "output")
	llm.ChunkSize = 2
	ag := newTestAgent(t, llm, 1)

	chunks, errs := ag.Run(context.Background(), "task")
	var got string
	for c := range chunks {
		got += c
	}
	require.NoError(t, <-errs)
	assert.Equal(t, "PLANoutput", got)
}

func TestRun_DispatchesToolCalls(t *testing.T) {
	llm := model.NewMockModel(
		"plan: call echo",
		`Action: {"name": "echo", "arguments": {"text": "hi"}}`,
		"plan 2",
		"no more calls",
	)
	ag := newTestAgent(t, llm, 2, echoAction())

	_, err := ag.RunSync(context.Background(), "task")
	require.NoError(t, err)

	steps := ag.Memory().Steps()
	act, ok := steps[2].(memory.ActionStep)
	require.True(t, ok)
	require.Len(t, act.ToolCalls, 1)
	assert.Equal(t, "echo", act.ToolCalls[0].Name)
	require.NotNil(t, act.Observations)
	assert.Equal(t, "echo: hi", *act.Observations)
	assert.Nil(t, act.Error)
}

func TestRun_FinalAnswerTerminatesEarly(t *testing.T) {
	llm := model.NewMockModel(
		"plan",
		`Action: {"name": "final_answer", "arguments": {"answer": "42"}}`,
	)
	ag := newTestAgent(t, llm, 5, action.NewFinalAnswer())

	_, err := ag.RunSync(context.Background(), "task")
	require.NoError(t, err)

	steps := ag.Memory().Steps()
	require.Len(t, steps, 4) // task, planning, action, final answer

	act, ok := steps[2].(memory.ActionStep)
	require.True(t, ok)
	assert.True(t, act.IsFinalAnswer)
	assert.Equal(t, "42", act.ActionOutput)

	fin, ok := steps[3].(memory.FinalAnswerStep)
	require.True(t, ok)
	assert.Equal(t, "42", fin.Output)
}

func TestRun_UnknownActionRecordedNotFatal(t *testing.T) {
	llm := model.NewMockModel(
		"plan",
		`Action: {"name": "no_such_tool", "arguments": {}}`,
		"plan 2",
		"done",
	)
	ag := newTestAgent(t, llm, 2, echoAction())

	_, err := ag.RunSync(context.Background(), "task")
	require.NoError(t, err)

	steps := ag.Memory().Steps()
	require.Len(t, steps, 5) // task + 2 iterations of (planning, action)

	act, ok := steps[2].(memory.ActionStep)
	require.True(t, ok)
	require.NotNil(t, act.Error)
	assert.Contains(t, *act.Error, "no_such_tool")
}

func TestRun_AllCallsAttemptedDespiteFailure(t *testing.T) {
	llm := model.NewMockModel(
		"plan",
		`Action: {"name": "broken", "arguments": {}}
Action: {"name": "echo", "arguments": {"text": "still here"}}`,
	)
	ag := newTestAgent(t, llm, 1, failingAction(), echoAction())

	_, err := ag.RunSync(context.Background(), "task")
	require.NoError(t, err)

	act, ok := ag.Memory().Steps()[2].(memory.ActionStep)
	require.True(t, ok)
	require.NotNil(t, act.Error)
	assert.Contains(t, *act.Error, "kaput")
	require.NotNil(t, act.Observations)
	assert.Contains(t, *act.Observations, "still here")
}

func TestRun_ProviderFailureDegradesToEmptyChunk(t *testing.T) {
	llm := model.NewMockModel()
	llm.FailWith(fmt.Errorf("transport down"))
	ag := newTestAgent(t, llm, 1)

	out, err := ag.RunSync(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, "", out)

	steps := ag.Memory().Steps()
	require.Len(t, steps, 3)
	plan, ok := steps[1].(memory.PlanningStep)
	require.True(t, ok)
	assert.Equal(t, "", plan.Plan)
}

func TestRun_InterruptBeforeStepTwo(t *testing.T) {
	llm := model.NewMockModel("plan 1", "gen 1", "plan 2", "gen 2")
	ag, err := New(llm, nil, func(o *Options) { o.MaxSteps = 3 })
	require.NoError(t, err)

	// Interrupt as soon as step 1's action step lands in memory.
	ag.callbacks.Register(memory.KindAction, func(memory.Step) { ag.Interrupt() })

	_, err = ag.RunSync(context.Background(), "task")
	require.NoError(t, err)

	steps := ag.Memory().Steps()
	require.Len(t, steps, 3) // task, planning 1, action 1 — nothing from step 2
	act, ok := steps[2].(memory.ActionStep)
	require.True(t, ok)
	assert.Equal(t, 1, act.StepNumber)
}

func TestRun_ContextCancellationReported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ag := newTestAgent(t, model.NewMockModel("plan", "gen"), 1)
	_, err := ag.RunSync(ctx, "task")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_PlanningIntervalSkipsReplanning(t *testing.T) {
	llm := model.NewMockModel("plan 1", "gen 1", "gen 2")
	ag, err := New(llm, nil, func(o *Options) {
		o.MaxSteps = 2
		o.PlanningInterval = 2
	})
	require.NoError(t, err)

	_, err = ag.RunSync(context.Background(), "task")
	require.NoError(t, err)

	steps := ag.Memory().Steps()
	require.Len(t, steps, 4) // task, planning, action, action
	planningCount := 0
	for _, s := range steps {
		if s.Kind() == memory.KindPlanning {
			planningCount++
		}
	}
	assert.Equal(t, 1, planningCount)
}

func TestRun_UpdatePlanUsesLaterVariant(t *testing.T) {
	llm := model.NewMockModel("plan 1", "gen 1", "plan 2", "gen 2")
	ag, err := New(llm, nil, func(o *Options) { o.MaxSteps = 2 })
	require.NoError(t, err)

	_, err = ag.RunSync(context.Background(), "task")
	require.NoError(t, err)

	reqs := llm.Requests()
	require.Len(t, reqs, 4)
	// Step 1 planning: single user message from the initial template.
	assert.Len(t, reqs[0], 1)
	// Step 2 planning: pre-messages system turn, replayed memory, post user turn.
	assert.Greater(t, len(reqs[2]), 1)
	assert.Contains(t, reqs[2][len(reqs[2])-1].Content, "steps remaining")
}

func TestRun_CodeActionExecuted(t *testing.T) {
	llm := model.NewMockModel(
		"plan",
		"Run this:\n```python\nprint('hi')\n```",
	)
	var executed string
	ag, err := New(llm, nil, func(o *Options) {
		o.MaxSteps = 1
		o.CodeExecutor = code.Func(func(_ context.Context, src string) (string, error) {
			executed = src
			return "hi", nil
		})
	})
	require.NoError(t, err)

	_, err = ag.RunSync(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", executed)

	act, ok := ag.Memory().Steps()[2].(memory.ActionStep)
	require.True(t, ok)
	require.NotNil(t, act.CodeAction)
	require.NotNil(t, act.Observations)
	assert.Equal(t, "hi", *act.Observations)
}

func TestRun_CodeActionRecordedWithoutExecutor(t *testing.T) {
	llm := model.NewMockModel("plan", "```python\nx = 1\n```")
	ag := newTestAgent(t, llm, 1)

	_, err := ag.RunSync(context.Background(), "task")
	require.NoError(t, err)

	act, ok := ag.Memory().Steps()[2].(memory.ActionStep)
	require.True(t, ok)
	require.NotNil(t, act.CodeAction)
	assert.Equal(t, "x = 1", *act.CodeAction)
	assert.Nil(t, act.Observations)
	assert.Equal(t, "x = 1", ag.Memory().FullCode())
}

func TestRun_StepCallbacksObserveGrowth(t *testing.T) {
	llm := model.NewMockModel("plan", "gen")
	var kinds []memory.StepKind
	ag, err := New(llm, nil, func(o *Options) {
		o.MaxSteps = 1
		o.Callbacks = memory.NewCallbackRegistry()
	})
	require.NoError(t, err)
	for _, k := range []memory.StepKind{memory.KindTask, memory.KindPlanning, memory.KindAction} {
		kind := k
		ag.callbacks.Register(kind, func(memory.Step) { kinds = append(kinds, kind) })
	}

	_, err = ag.RunSync(context.Background(), "task")
	require.NoError(t, err)
	assert.Equal(t, []memory.StepKind{memory.KindTask, memory.KindPlanning, memory.KindAction}, kinds)
}
