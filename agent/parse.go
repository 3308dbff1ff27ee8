package agent

import (
	"encoding/json"
	"strings"

	"github.com/stridekit/stride/core"
	"github.com/stridekit/stride/memory"
)

// actionMarker introduces a tool call in generated text. The JSON payload
// ({"name": ..., "arguments": {...}}) may follow on the same line, on the
// next lines, or inside a fenced json block.
const actionMarker = "Action:"

type toolCallPayload struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// parseToolCalls extracts every tool call encoded in the model output, in
// appearance order, plus the first non-json fenced code block as the step's
// literal code action. Output with no marker yields no calls; malformed
// payloads after a marker are skipped rather than failing the step.
func parseToolCalls(output string) ([]memory.ToolCall, *string) {
	var calls []memory.ToolCall
	rest := output
	for {
		idx := strings.Index(rest, actionMarker)
		if idx < 0 {
			break
		}
		rest = rest[idx+len(actionMarker):]
		payload, consumed, ok := decodeFirstObject(rest)
		if !ok {
			continue
		}
		rest = rest[consumed:]
		if payload.Name == "" {
			continue
		}
		args := payload.Arguments
		if args == nil {
			args = map[string]any{}
		}
		calls = append(calls, memory.ToolCall{
			ID:        "call_" + core.NewID(),
			Name:      payload.Name,
			Arguments: args,
		})
	}
	return calls, parseCodeAction(output)
}

// decodeFirstObject strips fences and whitespace, then decodes the first
// complete JSON object from text. It returns the payload, the number of
// bytes consumed from the original text, and whether decoding succeeded.
func decodeFirstObject(text string) (toolCallPayload, int, bool) {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	offset := len(text) - len(trimmed)
	if strings.HasPrefix(trimmed, "```") {
		inner := strings.TrimPrefix(trimmed, "```")
		inner = strings.TrimPrefix(inner, "json")
		offset += len(trimmed) - len(inner)
		trimmed = inner
		inner = strings.TrimLeft(trimmed, " \t\r\n")
		offset += len(trimmed) - len(inner)
		trimmed = inner
	}
	if !strings.HasPrefix(trimmed, "{") {
		return toolCallPayload{}, 0, false
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	var payload toolCallPayload
	if err := dec.Decode(&payload); err != nil {
		return toolCallPayload{}, 0, false
	}
	return payload, offset + int(dec.InputOffset()), true
}

// parseCodeAction returns the first fenced block not tagged json, which the
// memory log records verbatim as the step's code action.
func parseCodeAction(output string) *string {
	rest := output
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			return nil
		}
		rest = rest[start+3:]
		end := strings.Index(rest, "```")
		if end < 0 {
			return nil
		}
		block := rest[:end]
		rest = rest[end+3:]

		tag, body, found := strings.Cut(block, "\n")
		if !found {
			continue
		}
		if strings.TrimSpace(tag) == "json" {
			continue
		}
		code := strings.Trim(body, "\n")
		if code == "" || strings.HasPrefix(strings.TrimSpace(code), "{") {
			continue
		}
		return &code
	}
}
