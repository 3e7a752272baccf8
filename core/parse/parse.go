package parse

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// ParseStringAs decodes JSON text into T. When plain decoding fails the text
// is passed through jsonrepair, and if that still does not fit T, schema-style
// {"type": ..., "value": ...} wrappers are unwrapped before a final attempt.
//
//	profile, err := ParseStringAs[costmodel.ProjectProfile](`{"name": 'Shop', budget_inr_per_month: 5000}`)
func ParseStringAs[T any](content string) (T, error) {
	var result T
	err := json.Unmarshal([]byte(content), &result)
	if err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return result, fmt.Errorf("unmarshal %T: %w (repair failed: %v)", result, err, repairErr)
	}
	if err = json.Unmarshal([]byte(repaired), &result); err == nil {
		return result, nil
	}

	var generic any
	if json.Unmarshal([]byte(repaired), &generic) == nil {
		if unwrapped, marshalErr := json.Marshal(unwrapSchemaValues(generic)); marshalErr == nil {
			var retry T
			if json.Unmarshal(unwrapped, &retry) == nil {
				return retry, nil
			}
		}
	}
	return result, fmt.Errorf("unmarshal repaired JSON as %T: %w", result, err)
}

// ConvertAs re-encodes an extracted value into T. Values produced by
// ExtractJSON are always encodable, so an error means the value does not fit
// T's field types.
func ConvertAs[T any](v any) (T, error) {
	var result T
	data, err := json.Marshal(v)
	if err != nil {
		return result, fmt.Errorf("encode value: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("decode value as %T: %w", result, err)
	}
	return result, nil
}

// unwrapSchemaValues replaces {"type": X, "value": Y} pairs with Y. Models
// sometimes echo a schema description instead of plain data.
func unwrapSchemaValues(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if _, hasType := v["type"]; hasType {
			if value, hasValue := v["value"]; hasValue && len(v) == 2 {
				return unwrapSchemaValues(value)
			}
		}
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = unwrapSchemaValues(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = unwrapSchemaValues(val)
		}
		return out
	default:
		return data
	}
}
