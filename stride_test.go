package stride

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stridekit/stride/action"
	"github.com/stridekit/stride/model"
)

func TestNew_AppendsFinalAnswer(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	_, err = s.Agent().Actions().Get(action.FinalAnswerName)
	assert.NoError(t, err)
}

func TestNew_KeepsProvidedFinalAnswer(t *testing.T) {
	s, err := New(func(o *Options) {
		o.Actions = []action.Action{action.NewFinalAnswer()}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Agent().Actions().Len())
}

func TestRunSync_FinalAnswerFlow(t *testing.T) {
	llm := model.NewMockModel(
		"plan: answer directly",
		`Action: {"name": "final_answer", "arguments": {"answer": "done"}}`,
	)
	s, err := New(func(o *Options) {
		o.Model = llm
		o.MaxSteps = 3
	})
	require.NoError(t, err)

	out, err := s.RunSync(context.Background(), "finish up")
	require.NoError(t, err)
	assert.Contains(t, out, "plan: answer directly")
	assert.Equal(t, 4, s.Agent().Memory().Len())
}
