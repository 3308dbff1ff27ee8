package agent

// runState tracks where a run is inside one loop iteration.
type runState int

const (
	stateIdle runState = iota
	statePlanning
	stateGenerating
	stateActionDispatch
	stateTerminal
)

// TerminalReason explains why a run reached its terminal state.
type TerminalReason string

const (
	// TerminalFinalAnswer means the model produced a final answer.
	TerminalFinalAnswer TerminalReason = "final_answer"
	// TerminalMaxSteps means the step budget was exhausted.
	TerminalMaxSteps TerminalReason = "max_steps_reached"
	// TerminalCancelled means the caller interrupted or cancelled the run.
	TerminalCancelled TerminalReason = "cancelled"
	// TerminalFatal means an unrecoverable fault stopped the run.
	TerminalFatal TerminalReason = "fatal"
)
