package action

import (
	"context"
	"fmt"
)

// FinalAnswerName is the reserved action name the loop watches for to
// terminate a run with a final answer step.
const FinalAnswerName = "final_answer"

// FinalAnswer is the built-in action a model calls to finish the task. Its
// observation is the answer text itself; the loop turns the invocation into
// a FinalAnswerStep and transitions to the terminal state.
type FinalAnswer struct{}

// NewFinalAnswer creates the built-in final answer action.
func NewFinalAnswer() *FinalAnswer { return &FinalAnswer{} }

// Name implements Action.
func (*FinalAnswer) Name() string { return FinalAnswerName }

// Description implements Action.
func (*FinalAnswer) Description() string {
	return "Provide the final answer to the task. Calling this ends the run."
}

// Parameters implements Action.
func (*FinalAnswer) Parameters() []Parameter {
	return []Parameter{
		{Name: "answer", DType: "string", Description: "The final answer to return to the caller."},
	}
}

// OutputType implements Action.
func (*FinalAnswer) OutputType() string { return "string" }

// Act implements Action.
func (*FinalAnswer) Act(_ context.Context, args map[string]any) (Observation, error) {
	answer, ok := args["answer"].(string)
	if !ok {
		return "", &InvocationError{Action: FinalAnswerName, Err: fmt.Errorf("missing answer input")}
	}
	return Observation(answer), nil
}
