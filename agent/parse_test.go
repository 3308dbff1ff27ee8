package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolCalls_InlineJSON(t *testing.T) {
	out := `I will search for it.
Action: {"name": "web_search", "arguments": {"query": "go generics"}}`

	calls, code := parseToolCalls(out)
	require.Len(t, calls, 1)
	assert.Equal(t, "web_search", calls[0].Name)
	assert.Equal(t, "go generics", calls[0].Arguments["query"])
	assert.NotEmpty(t, calls[0].ID)
	assert.Nil(t, code)
}

func TestParseToolCalls_FencedJSON(t *testing.T) {
	out := "Action:\n```json\n{\"name\": \"final_answer\", \"arguments\": {\"answer\": \"42\"}}\n```"

	calls, _ := parseToolCalls(out)
	require.Len(t, calls, 1)
	assert.Equal(t, "final_answer", calls[0].Name)
	assert.Equal(t, "42", calls[0].Arguments["answer"])
}

func TestParseToolCalls_MultipleCallsInOrder(t *testing.T) {
	out := `Action: {"name": "first", "arguments": {}}
some reasoning
Action: {"name": "second", "arguments": {"n": 1}}`

	calls, _ := parseToolCalls(out)
	require.Len(t, calls, 2)
	assert.Equal(t, "first", calls[0].Name)
	assert.Equal(t, "second", calls[1].Name)
}

func TestParseToolCalls_NoMarker(t *testing.T) {
	calls, code := parseToolCalls("just prose, no calls")
	assert.Empty(t, calls)
	assert.Nil(t, code)
}

func TestParseToolCalls_MalformedPayloadSkipped(t *testing.T) {
	out := `Action: not json at all
Action: {"name": "ok", "arguments": {}}`

	calls, _ := parseToolCalls(out)
	require.Len(t, calls, 1)
	assert.Equal(t, "ok", calls[0].Name)
}

func TestParseToolCalls_MissingArgumentsDefaultsEmpty(t *testing.T) {
	calls, _ := parseToolCalls(`Action: {"name": "ping"}`)
	require.Len(t, calls, 1)
	assert.NotNil(t, calls[0].Arguments)
	assert.Empty(t, calls[0].Arguments)
}

func TestParseCodeAction_FencedCodeBlock(t *testing.T) {
	out := "Here is the script:\n```python\nprint('hi')\n```\nDone."

	_, code := parseToolCalls(out)
	require.NotNil(t, code)
	assert.Equal(t, "print('hi')", *code)
}

func TestParseCodeAction_JSONBlocksIgnored(t *testing.T) {
	out := "Action:\n```json\n{\"name\": \"x\", \"arguments\": {}}\n```"

	_, code := parseToolCalls(out)
	assert.Nil(t, code)
}
