package agent

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/stridekit/stride/action"
	"github.com/stridekit/stride/code"
	"github.com/stridekit/stride/core"
	"github.com/stridekit/stride/logging"
	"github.com/stridekit/stride/memory"
	"github.com/stridekit/stride/model"
	"github.com/stridekit/stride/prompt"
)

// planFraming wraps the accumulated plan text into the system message of
// the generation call.
const planFraming = "Here are the facts I know and the plan of action that I will follow to solve the task:\n```\n%s\n```"

// Options configures an Agent instance. Use functional options with New to
// override defaults.
type Options struct {
	// MaxSteps bounds the number of loop iterations before the run stops
	// with TerminalMaxSteps.
	MaxSteps int
	// StreamOutputs selects streaming model calls; when false each call is
	// batch and its full text is emitted as a single chunk.
	StreamOutputs bool
	// PlanningInterval re-plans every N action steps. 1 plans on every
	// iteration.
	PlanningInterval int
	// Templates is the fully-resolved prompt template set.
	Templates prompt.Templates
	// Logger receives structured run logs.
	Logger logging.Logger
	// Callbacks observe appended memory steps.
	Callbacks *memory.CallbackRegistry
	// CodeExecutor, when set, runs the fenced code block of a step and
	// feeds its output back as an observation. Nil records the code
	// without executing it.
	CodeExecutor code.Executor
}

// Agent drives the planning/execution loop for one session. The model and
// the action registry are shared-immutable; the memory log belongs to this
// agent alone.
type Agent struct {
	llm              model.Model
	actions          *action.Registry
	templates        prompt.Templates
	mem              *memory.AgentMemory
	callbacks        *memory.CallbackRegistry
	codeExec         code.Executor
	logger           *logging.RunLogger
	maxSteps         int
	streamOutputs    bool
	planningInterval int
	interrupted      atomic.Bool
}

// New constructs an Agent. Configuration faults (duplicate action names,
// malformed templates) are surfaced here; a run never starts on a broken
// setup.
func New(llm model.Model, actions []action.Action, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		MaxSteps:         6,
		StreamOutputs:    true,
		PlanningInterval: 1,
		Templates:        prompt.Default(),
		Logger:           logging.NoOpLogger{},
		Callbacks:        memory.NewCallbackRegistry(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if llm == nil {
		return nil, fmt.Errorf("agent: nil model")
	}
	if opts.MaxSteps < 1 {
		return nil, fmt.Errorf("agent: max steps must be >= 1, got %d", opts.MaxSteps)
	}
	if opts.PlanningInterval < 1 {
		return nil, fmt.Errorf("agent: planning interval must be >= 1, got %d", opts.PlanningInterval)
	}
	if err := opts.Templates.Validate(); err != nil {
		return nil, err
	}

	registry, err := action.NewRegistry(actions)
	if err != nil {
		return nil, err
	}

	systemPrompt := prompt.Substitute(opts.Templates.SystemPrompt, map[string]string{
		"tools":          registry.DescribeAll(),
		"managed_agents": "",
	})

	return &Agent{
		llm:              llm,
		actions:          registry,
		templates:        opts.Templates,
		mem:              memory.NewAgentMemory(systemPrompt),
		callbacks:        opts.Callbacks,
		codeExec:         opts.CodeExecutor,
		logger:           logging.NewRunLogger(opts.Logger),
		maxSteps:         opts.MaxSteps,
		streamOutputs:    opts.StreamOutputs,
		planningInterval: opts.PlanningInterval,
	}, nil
}

// Memory returns the agent's step log.
func (a *Agent) Memory() *memory.AgentMemory { return a.mem }

// Actions returns the registered action set.
func (a *Agent) Actions() *action.Registry { return a.actions }

// Interrupt requests cancellation. The flag is checked at step boundaries;
// the current model call finishes streaming before the run stops.
func (a *Agent) Interrupt() { a.interrupted.Store(true) }

// Run executes the loop for the given task, streaming text chunks in strict
// production order: plan chunks, then generation chunks, per iteration.
// Both channels are closed when the run reaches a terminal state. A context
// cancellation is reported on the error channel; an Interrupt closes the
// stream cleanly. Provider and action faults never abort the run; they
// degrade to empty chunks or recorded step errors.
func (a *Agent) Run(ctx context.Context, task string, images ...string) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)
		if err := a.runLoop(ctx, task, images, out); err != nil {
			errCh <- err
		}
	}()

	return out, errCh
}

// RunSync drains Run, returning the concatenated output.
func (a *Agent) RunSync(ctx context.Context, task string, images ...string) (string, error) {
	chunks, errs := a.Run(ctx, task, images...)
	var b strings.Builder
	for chunk := range chunks {
		b.WriteString(chunk)
	}
	if err := <-errs; err != nil {
		return b.String(), err
	}
	return b.String(), nil
}

// runLoop is the state machine. It owns the output channel for the
// duration of the run.
func (a *Agent) runLoop(ctx context.Context, task string, images []string, out chan<- string) error {
	runID := core.NewID()
	logger := a.logger.WithRun("", runID)
	a.interrupted.Store(false)

	logger.Info("run.start", "task_len", len(task), "max_steps", a.maxSteps)

	a.record(memory.TaskStep{Task: task, TaskImages: images})

	var plan string
	reason := TerminalMaxSteps

	for stepNumber := 1; stepNumber <= a.maxSteps; stepNumber++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("run.cancelled", "step", stepNumber)
			return err
		}
		if a.interrupted.Load() {
			logger.Info("run.interrupted", "step", stepNumber)
			reason = TerminalCancelled
			break
		}

		if (stepNumber-1)%a.planningInterval == 0 {
			plan = a.planPhase(ctx, logger, task, stepNumber, out)
		}

		final := a.stepPhase(ctx, logger, task, plan, stepNumber, out)
		if final != nil {
			a.record(memory.FinalAnswerStep{Output: *final})
			reason = TerminalFinalAnswer
			break
		}
	}

	logger.Info("run.done", "reason", string(reason), "steps", a.mem.Len())
	return nil
}

// planPhase runs the Planning state: one model call producing the plan
// text, streamed to the caller as it arrives, recorded as a PlanningStep.
func (a *Agent) planPhase(ctx context.Context, logger *logging.RunLogger, task string, stepNumber int, out chan<- string) string {
	inputMessages := a.planningMessages(task, stepNumber)
	timing := core.NewTiming()

	text, usage, err := a.callModel(ctx, inputMessages, out)
	timing = timing.Stop()
	logger.LogModelCall("planning", timing.Duration(), err == nil, err)
	if err != nil {
		// Degrade to an empty plan chunk; the run continues.
		text = ""
	}

	outputMessage := core.AssistantMessage(text)
	a.record(memory.PlanningStep{
		ModelInputMessages: inputMessages,
		ModelOutputMessage: &outputMessage,
		Plan:               text,
		Timing:             timing,
		TokenUsage:         usage,
	})
	return text
}

// stepPhase runs the Generating and ActionDispatch states for one
// iteration and records the ActionStep. It returns the final answer text
// when one was produced.
func (a *Agent) stepPhase(ctx context.Context, logger *logging.RunLogger, task, plan string, stepNumber int, out chan<- string) *string {
	inputMessages := []core.Message{
		core.SystemMessage(fmt.Sprintf(planFraming, plan)),
		core.UserMessage(task),
	}
	timing := core.NewTiming()

	text, usage, err := a.callModel(ctx, inputMessages, out)
	logger.LogModelCall("generation", timing.Stop().Duration(), err == nil, err)
	if err != nil {
		text = ""
	}

	outputMessage := core.AssistantMessage(text)
	step := memory.ActionStep{
		StepNumber:         stepNumber,
		ModelInputMessages: inputMessages,
		ModelOutputMessage: &outputMessage,
		ModelOutput:        &text,
		TokenUsage:         usage,
	}

	var final *string
	calls, codeAction := parseToolCalls(text)
	step.CodeAction = codeAction
	if len(calls) > 0 {
		step.ToolCalls = calls
		final = a.dispatch(ctx, logger, calls, &step)
	}
	if codeAction != nil && a.codeExec != nil {
		a.executeCode(ctx, logger, *codeAction, &step)
	}

	step.Timing = timing.Stop()
	a.record(step)
	return final
}

// dispatch invokes every tool call of the step. Per-call faults are
// recorded on the step and fed back into the next prompt; they never stop
// the loop or the remaining calls.
func (a *Agent) dispatch(ctx context.Context, logger *logging.RunLogger, calls []memory.ToolCall, step *memory.ActionStep) *string {
	var observations []string
	var callErrors []string
	var final *string

	for _, call := range calls {
		act, err := a.actions.Get(call.Name)
		if err != nil {
			logger.Warn("action.lookup.failed", "action", call.Name)
			callErrors = append(callErrors, err.Error())
			continue
		}

		matched := action.PrepareInputs(act.Parameters(), action.InputsFromArguments(call.Arguments))
		timing := core.NewTiming()
		obs, err := act.Act(ctx, matched)
		logger.LogActionCall(call.Name, timing.Stop().Duration(), err == nil, err)
		if err != nil {
			callErrors = append(callErrors, err.Error())
			continue
		}

		observations = append(observations, string(obs))
		if call.Name == action.FinalAnswerName {
			answer := string(obs)
			final = &answer
			step.IsFinalAnswer = true
			step.ActionOutput = answer
		}
	}

	if len(observations) > 0 {
		joined := strings.Join(observations, "\n")
		step.Observations = &joined
	}
	if len(callErrors) > 0 {
		joined := strings.Join(callErrors, "\n")
		step.Error = &joined
	}
	return final
}

// executeCode runs the step's fenced code block through the configured
// executor and folds the result into the step's observations. Executor
// faults are recorded like action faults; they never stop the loop.
func (a *Agent) executeCode(ctx context.Context, logger *logging.RunLogger, codeAction string, step *memory.ActionStep) {
	timing := core.NewTiming()
	output, err := a.codeExec.Execute(ctx, codeAction)
	logger.LogActionCall("code_executor", timing.Stop().Duration(), err == nil, err)
	if err != nil {
		appendJoined(&step.Error, err.Error())
		return
	}
	appendJoined(&step.Observations, output)
}

// appendJoined grows a newline-joined optional string in place.
func appendJoined(dst **string, value string) {
	if *dst == nil {
		v := value
		*dst = &v
		return
	}
	joined := **dst + "\n" + value
	*dst = &joined
}

// callModel invokes the model in the configured mode, forwarding chunks to
// the run's output stream in arrival order while accumulating the full
// text. Failures are returned for the caller to degrade gracefully.
func (a *Agent) callModel(ctx context.Context, messages []core.Message, out chan<- string) (string, *core.TokenUsage, error) {
	if !a.streamOutputs {
		res, err := a.llm.Generate(ctx, messages)
		if err != nil {
			return "", nil, err
		}
		// Batch mode still yields the text as one chunk.
		select {
		case out <- res.Text:
		case <-ctx.Done():
			return res.Text, res.Usage, ctx.Err()
		}
		return res.Text, res.Usage, nil
	}

	chunks, errs := a.llm.GenerateStream(ctx, messages)
	var b strings.Builder
	for chunk := range chunks {
		b.WriteString(chunk)
		select {
		case out <- chunk:
		case <-ctx.Done():
			return b.String(), nil, ctx.Err()
		}
	}
	if err, ok := <-errs; ok && err != nil {
		return b.String(), nil, err
	}
	return b.String(), nil, nil
}

// record appends a step to memory and notifies registered observers.
func (a *Agent) record(step memory.Step) {
	a.mem.Append(step)
	a.callbacks.Notify(step)
}
