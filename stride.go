// Package stride provides a high-level façade over the agent loop and its
// services (models, actions, prompts, sessions & logging) enabling rapid
// construction of task-solving agents. Most applications interact with this
// package by:
//  1. Creating a Stride via New() (optionally overriding model, actions and templates)
//  2. Running tasks asynchronously (Run) or synchronously (RunSync)
//
// The façade delegates the planning/execution loop to agent.Agent while
// keeping setup and usage ergonomics concise. All defaults are safe for
// local development and testing; production deployments typically supply a
// configured provider model and a structured logger.
package stride

import (
	"context"

	"github.com/stridekit/stride/action"
	"github.com/stridekit/stride/agent"
	"github.com/stridekit/stride/logging"
	"github.com/stridekit/stride/memory"
	"github.com/stridekit/stride/model"
	"github.com/stridekit/stride/prompt"
)

// Options configures the Stride instance.
type Options struct {
	// Model is the LLM backing planning and generation. Defaults to a
	// scripted mock, which is only useful for tests and demos.
	Model model.Model

	// Actions are the capabilities exposed to the model. A final_answer
	// action is appended when none is present so every run can terminate.
	Actions []action.Action

	// MaxSteps bounds the number of loop iterations per run.
	MaxSteps int

	// PlanningInterval re-plans every N action steps.
	PlanningInterval int

	// StreamOutputs selects streaming model calls.
	StreamOutputs bool

	// Templates is the prompt template set (defaults to the built-in
	// tool-calling templates).
	Templates prompt.Templates

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Callbacks observe memory growth during runs.
	Callbacks *memory.CallbackRegistry
}

// Stride is the high-level façade aggregating the agent loop and its
// services.
type Stride struct {
	opts  Options
	agent *agent.Agent
}

// New creates a new Stride instance with optional overrides. Any unset
// service is initialized with a safe default.
func New(optFns ...func(o *Options)) (*Stride, error) {
	opts := Options{
		Model:            model.NewMockModel(),
		MaxSteps:         6,
		PlanningInterval: 1,
		StreamOutputs:    true,
		Templates:        prompt.Default(),
		Logger:           logging.NoOpLogger{},
		Callbacks:        memory.NewCallbackRegistry(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	actions := opts.Actions
	if !hasFinalAnswer(actions) {
		actions = append(actions, action.NewFinalAnswer())
	}

	ag, err := agent.New(opts.Model, actions, func(o *agent.Options) {
		o.MaxSteps = opts.MaxSteps
		o.PlanningInterval = opts.PlanningInterval
		o.StreamOutputs = opts.StreamOutputs
		o.Templates = opts.Templates
		o.Logger = opts.Logger
		o.Callbacks = opts.Callbacks
	})
	if err != nil {
		return nil, err
	}

	return &Stride{opts: opts, agent: ag}, nil
}

// Agent exposes the underlying agent for advanced use (memory inspection,
// interrupts).
func (s *Stride) Agent() *agent.Agent { return s.agent }

// Run starts an asynchronous run returning chunk & error channels.
func (s *Stride) Run(ctx context.Context, task string) (<-chan string, <-chan error) {
	return s.agent.Run(ctx, task)
}

// RunSync is a synchronous helper that drains the async channels and
// returns the concatenated output.
func (s *Stride) RunSync(ctx context.Context, task string) (string, error) {
	return s.agent.RunSync(ctx, task)
}

func hasFinalAnswer(actions []action.Action) bool {
	for _, a := range actions {
		if a != nil && a.Name() == action.FinalAnswerName {
			return true
		}
	}
	return false
}
