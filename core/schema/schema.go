package schema

import (
	"fmt"
)

const (
	// MinBillingRecords is the smallest accepted billing sequence.
	MinBillingRecords = 10

	// BillingTarget is the number of records requested from the model.
	BillingTarget = 12

	// MinRecommendations is the smallest accepted recommendation list.
	MinRecommendations = 6
)

// Rule names reported in a Violation.
const (
	RuleType     = "type"
	RuleRequired = "required"
	RuleMinItems = "min_items"
)

var (
	profileFields = []string{"name", "budget_inr_per_month", "description", "tech_stack"}
	billingFields = []string{"month", "service", "cost_inr"}
	reportFields  = []string{"project_name", "analysis", "recommendations"}
)

// Violation describes the first constraint a value failed.
type Violation struct {
	// Path locates the offending value, e.g. "$", "$.tech_stack" or "$[3].month".
	Path    string
	Rule    string
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Profile validates a project profile object.
func Profile(v any) *Violation {
	obj, ok := v.(map[string]any)
	if !ok {
		return typeViolation("$", "object", v)
	}
	if viol := requireKeys("$", obj, profileFields); viol != nil {
		return viol
	}
	if !isNumber(obj["budget_inr_per_month"]) {
		return typeViolation("$.budget_inr_per_month", "number", obj["budget_inr_per_month"])
	}
	if _, ok := obj["tech_stack"].(map[string]any); !ok {
		return typeViolation("$.tech_stack", "object", obj["tech_stack"])
	}
	return nil
}

// Billing validates a billing record array holding at least minRecords records.
func Billing(v any, minRecords int) *Violation {
	records, ok := v.([]any)
	if !ok {
		return typeViolation("$", "array", v)
	}
	if len(records) < minRecords {
		return &Violation{
			Path:    "$",
			Rule:    RuleMinItems,
			Message: fmt.Sprintf("expected at least %d records, got %d", minRecords, len(records)),
		}
	}
	for i, item := range records {
		path := fmt.Sprintf("$[%d]", i)
		record, ok := item.(map[string]any)
		if !ok {
			return typeViolation(path, "object", item)
		}
		if viol := requireKeys(path, record, billingFields); viol != nil {
			return viol
		}
	}
	return nil
}

// Report validates a cost optimization report object.
func Report(v any) *Violation {
	obj, ok := v.(map[string]any)
	if !ok {
		return typeViolation("$", "object", v)
	}
	if viol := requireKeys("$", obj, reportFields); viol != nil {
		return viol
	}
	recs, ok := obj["recommendations"].([]any)
	if !ok {
		return typeViolation("$.recommendations", "array", obj["recommendations"])
	}
	if len(recs) < MinRecommendations {
		return &Violation{
			Path:    "$.recommendations",
			Rule:    RuleMinItems,
			Message: fmt.Sprintf("expected at least %d recommendations, got %d", MinRecommendations, len(recs)),
		}
	}
	for i, rec := range recs {
		if _, ok := rec.(map[string]any); !ok {
			return typeViolation(fmt.Sprintf("$.recommendations[%d]", i), "object", rec)
		}
	}
	return nil
}

func requireKeys(path string, obj map[string]any, keys []string) *Violation {
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			return &Violation{
				Path:    path + "." + key,
				Rule:    RuleRequired,
				Message: fmt.Sprintf("missing required field %q", key),
			}
		}
	}
	return nil
}

// isNumber accepts the numeric types a decoder may produce. JSON booleans
// are not numbers.
func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32:
		return true
	default:
		return false
	}
}

func typeViolation(path, want string, got any) *Violation {
	return &Violation{
		Path:    path,
		Rule:    RuleType,
		Message: fmt.Sprintf("expected %s, got %s", want, kindOf(got)),
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
