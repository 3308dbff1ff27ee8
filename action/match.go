package action

import "strings"

// PrepareInputs matches caller supplied inputs against a declared parameter
// schema. For each parameter, in declaration order, the first input whose
// key equals the parameter name and whose dtype equals the parameter dtype
// under case-insensitive comparison is selected. Inputs with no matching
// parameter are dropped silently.
//
// The result maps parameter name to the matched value and is the only
// argument shape Act may be called with.
func PrepareInputs(params []Parameter, inputs []Input) map[string]any {
	matched := make(map[string]any, len(params))
	for _, p := range params {
		for _, in := range inputs {
			if in.Key == p.Name && strings.EqualFold(in.DType, p.DType) {
				matched[p.Name] = in.Value
				break
			}
		}
	}
	return matched
}

// InputsFromArguments converts a tool-call argument mapping into matchable
// inputs, inferring each dtype from the dynamic value type. Iteration order
// of the source map is irrelevant: matching selects by key, and duplicate
// keys cannot occur in a map.
func InputsFromArguments(args map[string]any) []Input {
	inputs := make([]Input, 0, len(args))
	for k, v := range args {
		inputs = append(inputs, Input{Key: k, Value: v, DType: InferDType(v)})
	}
	return inputs
}

// InferDType maps a dynamic Go value onto the schema dtype vocabulary.
func InferDType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case int, int32, int64, float32, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "object"
	}
}
