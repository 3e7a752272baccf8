package parse

import (
	"reflect"
	"testing"
)

// TestExtractJSON covers fence stripping, prose-wrapped values and failures.
func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   any
		wantOK bool
	}{
		{
			name:   "plain object",
			input:  `{"a":1}`,
			want:   map[string]any{"a": float64(1)},
			wantOK: true,
		},
		{
			name:   "fenced object with prose",
			input:  "Sure! ```json\n{\"name\":\"X\",\"budget_inr_per_month\":5000,\"description\":\"d\",\"tech_stack\":{\"backend\":\"go\"}}\n```",
			want:   map[string]any{"name": "X", "budget_inr_per_month": float64(5000), "description": "d", "tech_stack": map[string]any{"backend": "go"}},
			wantOK: true,
		},
		{
			name:   "array after prose",
			input:  "Here are the records:\n[{\"month\":\"2024-01\"}]\nHope this helps.",
			want:   []any{map[string]any{"month": "2024-01"}},
			wantOK: true,
		},
		{
			name:   "bare fences",
			input:  "```\n[1,2]\n```",
			want:   []any{float64(1), float64(2)},
			wantOK: true,
		},
		{
			name:   "scalar full text",
			input:  "42",
			want:   float64(42),
			wantOK: true,
		},
		{
			name:   "bare array of objects parses as a whole",
			input:  `[{"a":1}]`,
			want:   []any{map[string]any{"a": float64(1)}},
			wantOK: true,
		},
		{
			name:   "array span used when object span is invalid",
			input:  `Records: [{"a":1},{"a":2}] (amounts in INR})`,
			want:   []any{map[string]any{"a": float64(1)}, map[string]any{"a": float64(2)}},
			wantOK: true,
		},
		{
			name:   "no brackets",
			input:  "I cannot help with that.",
			wantOK: false,
		},
		{
			name:   "empty",
			input:  "   ",
			wantOK: false,
		},
		{
			name:   "unbalanced object",
			input:  `{"name": "X", "tech_stack": {"backend": "go"}`,
			wantOK: false,
		},
		{
			name:   "closing before opening",
			input:  `} nothing here {`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractJSON(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractJSON(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

// TestExtractor_BalancedScan checks that two separate fragments defeat the
// default strategy but are recovered by the balanced scan.
func TestExtractor_BalancedScan(t *testing.T) {
	input := `First {"a": 1} and then {"b": "}"} done`

	if _, ok := ExtractJSON(input); ok {
		t.Fatal("default strategy should fail on two fragments")
	}

	got, ok := NewExtractor(WithBalancedScan()).Extract(input)
	if !ok {
		t.Fatal("balanced scan should find the first fragment")
	}
	want := map[string]any{"a": float64(1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestBalancedFragments(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`x {"a":"[}"} y [1,[2]] z`, []string{`{"a":"[}"}`, `[1,[2]]`}},
		{`{"a":"\"}"}`, []string{`{"a":"\"}"}`}},
		{`{[}]`, nil},
		{`no brackets`, nil},
		{`{"open": 1`, nil},
	}
	for _, tt := range tests {
		got := balancedFragments(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("balancedFragments(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestExtractor_Repair ensures truncated output is only recovered when repair
// is enabled.
func TestExtractor_Repair(t *testing.T) {
	input := `Result: {"name": "X", "budget_inr_per_month": 5000`

	if _, ok := ExtractJSON(input); ok {
		t.Fatal("default strategy must not complete truncated JSON")
	}

	got, ok := NewExtractor(WithRepair()).Extract(input)
	if !ok {
		t.Fatal("repair should recover truncated object")
	}
	obj, isObj := got.(map[string]any)
	if !isObj || obj["name"] != "X" {
		t.Errorf("unexpected repaired value %#v", got)
	}

	if _, ok := NewExtractor(WithRepair()).Extract("no json at all"); ok {
		t.Error("repair must not invent a value without brackets")
	}
}

func TestShapeOf(t *testing.T) {
	tests := []struct {
		v    any
		want Shape
	}{
		{map[string]any{}, ShapeObject},
		{[]any{}, ShapeArray},
		{"s", ShapeOther},
		{float64(1), ShapeOther},
		{nil, ShapeOther},
	}
	for _, tt := range tests {
		if got := ShapeOf(tt.v); got != tt.want {
			t.Errorf("ShapeOf(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, true},
		{map[string]any{}, true},
		{[]any{}, true},
		{map[string]any{"a": 1}, false},
		{[]any{1}, false},
		{float64(0), false},
	}
	for _, tt := range tests {
		if got := IsEmpty(tt.v); got != tt.want {
			t.Errorf("IsEmpty(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

// FuzzExtractJSON asserts the extractor never panics.
func FuzzExtractJSON(f *testing.F) {
	for _, seed := range []string{"", "{", "}{", "```json\n{\"a\":[1,2", `[{"a":"\"}]`} {
		f.Add(seed)
	}
	extractor := NewExtractor(WithBalancedScan(), WithRepair())
	f.Fuzz(func(t *testing.T, s string) {
		_, _ = ExtractJSON(s)
		_, _ = extractor.Extract(s)
	})
}
