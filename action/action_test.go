package action

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Action = (*Func)(nil)
	_ Action = (*WebSearch)(nil)
	_ Action = (*FinalAnswer)(nil)
)

func echoAction() *Func {
	return NewFunc(
		"echo", "Repeat the given text back.", "string",
		[]Parameter{{Name: "text", DType: "string", Description: "Text to repeat"}},
		func(_ context.Context, args map[string]any) (Observation, error) {
			s, _ := args["text"].(string)
			return Observation(s), nil
		},
	)
}

func TestPrepareInputs_MatchesNameAndDType(t *testing.T) {
	params := []Parameter{
		{Name: "query", DType: "string"},
		{Name: "limit", DType: "number"},
	}
	inputs := []Input{
		{Key: "limit", Value: 3, DType: "number"},
		{Key: "query", Value: "go", DType: "STRING"}, // dtype match is case-insensitive
		{Key: "noise", Value: true, DType: "boolean"},
	}

	matched := PrepareInputs(params, inputs)

	assert.Equal(t, map[string]any{"query": "go", "limit": 3}, matched)
}

func TestPrepareInputs_FirstMatchWins(t *testing.T) {
	params := []Parameter{{Name: "query", DType: "string"}}
	inputs := []Input{
		{Key: "query", Value: "first", DType: "string"},
		{Key: "query", Value: "second", DType: "string"},
	}

	matched := PrepareInputs(params, inputs)

	assert.Equal(t, "first", matched["query"])
}

func TestPrepareInputs_DTypeMismatchSkipped(t *testing.T) {
	params := []Parameter{{Name: "query", DType: "string"}}
	inputs := []Input{
		{Key: "query", Value: 42, DType: "number"}, // right key, wrong dtype
		{Key: "query", Value: "ok", DType: "string"},
	}

	matched := PrepareInputs(params, inputs)

	assert.Equal(t, "ok", matched["query"])
}

func TestPrepareInputs_UnmatchedInputsDroppedSilently(t *testing.T) {
	params := []Parameter{{Name: "query", DType: "string"}}
	inputs := []Input{{Key: "unrelated", Value: "x", DType: "string"}}

	matched := PrepareInputs(params, inputs)

	// Permissive-by-design: no error surface exists, the result is simply empty.
	assert.Empty(t, matched)
}

func TestInputsFromArguments_InfersDTypes(t *testing.T) {
	inputs := InputsFromArguments(map[string]any{
		"s": "text",
		"n": 1.5,
		"b": true,
		"o": map[string]any{"k": "v"},
		"a": []any{1, 2},
	})

	byKey := map[string]string{}
	for _, in := range inputs {
		byKey[in.Key] = in.DType
	}
	assert.Equal(t, "string", byKey["s"])
	assert.Equal(t, "number", byKey["n"])
	assert.Equal(t, "boolean", byKey["b"])
	assert.Equal(t, "object", byKey["o"])
	assert.Equal(t, "array", byKey["a"])
}

func TestRegistry_RejectsDuplicateNames(t *testing.T) {
	_, err := NewRegistry([]Action{echoAction(), echoAction()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestRegistry_LookupError(t *testing.T) {
	reg, err := NewRegistry([]Action{echoAction()})
	require.NoError(t, err)

	_, err = reg.Get("missing")
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, "missing", lookupErr.Name)
}

func TestRegistry_DescribeAllPreservesOrder(t *testing.T) {
	reg, err := NewRegistry([]Action{echoAction(), NewFinalAnswer()})
	require.NoError(t, err)

	text := reg.DescribeAll()
	echoIdx := strings.Index(text, "- echo:")
	finalIdx := strings.Index(text, "- final_answer:")
	require.GreaterOrEqual(t, echoIdx, 0)
	require.Greater(t, finalIdx, echoIdx)
	assert.Contains(t, text, "text (string): Text to repeat")
	assert.Contains(t, text, "Returns an output of type: string")
}

func TestFunc_WrapsFailuresAsInvocationError(t *testing.T) {
	failing := NewFunc("boom", "always fails", "string", nil,
		func(context.Context, map[string]any) (Observation, error) {
			return "", fmt.Errorf("underlying fault")
		})

	_, err := failing.Act(context.Background(), nil)
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "boom", invErr.Action)
	assert.Contains(t, errors.Unwrap(invErr).Error(), "underlying fault")
}

func TestFunc_ForwardsInvocationErrorUnchanged(t *testing.T) {
	original := &InvocationError{Action: "inner", Err: fmt.Errorf("cause")}
	failing := NewFunc("outer", "fails with typed error", "string", nil,
		func(context.Context, map[string]any) (Observation, error) {
			return "", original
		})

	_, err := failing.Act(context.Background(), nil)
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "inner", invErr.Action)
}

func TestWebSearch_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "go language", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"AbstractText":"Go is a language","AbstractURL":"https://go.dev","RelatedTopics":[{"Text":"Go spec","FirstURL":"https://go.dev/ref/spec"}]}`)
	}))
	defer srv.Close()

	ws := NewWebSearch(func(o *WebSearchOptions) {
		o.BaseURL = srv.URL
		o.Client = srv.Client()
	})

	obs, err := ws.Act(context.Background(), map[string]any{"query": "go language"})
	require.NoError(t, err)
	assert.Contains(t, string(obs), "Go is a language")
	assert.Contains(t, string(obs), "Go spec")
}

func TestWebSearch_ErrorStatusBecomesInvocationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ws := NewWebSearch(func(o *WebSearchOptions) {
		o.BaseURL = srv.URL
		o.Client = srv.Client()
	})

	_, err := ws.Act(context.Background(), map[string]any{"query": "x"})
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "web_search", invErr.Action)
}

func TestFinalAnswer_ReturnsAnswer(t *testing.T) {
	fa := NewFinalAnswer()

	obs, err := fa.Act(context.Background(), map[string]any{"answer": "42"})
	require.NoError(t, err)
	assert.Equal(t, Observation("42"), obs)

	_, err = fa.Act(context.Background(), map[string]any{})
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
}
