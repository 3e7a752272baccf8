package parse

import (
	"testing"
)

type testProfile struct {
	Name   string  `json:"name"`
	Budget float64 `json:"budget_inr_per_month"`
}

func TestParseStringAs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    testProfile
		wantErr bool
	}{
		{"valid", `{"name":"Shop","budget_inr_per_month":5000}`, testProfile{"Shop", 5000}, false},
		{"single quotes repaired", `{'name': 'Shop', 'budget_inr_per_month': 5000}`, testProfile{"Shop", 5000}, false},
		{"trailing comma repaired", `{"name":"Shop","budget_inr_per_month":5000,}`, testProfile{"Shop", 5000}, false},
		{
			"schema wrapped values",
			`{"name":{"type":"string","value":"Shop"},"budget_inr_per_month":{"type":"number","value":5000}}`,
			testProfile{"Shop", 5000},
			false,
		},
		{"array into struct", `[1,2,3]`, testProfile{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringAs[testProfile](tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConvertAs(t *testing.T) {
	v := map[string]any{"name": "Shop", "budget_inr_per_month": float64(1200.5), "extra": true}
	got, err := ConvertAs[testProfile](v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Shop" || got.Budget != 1200.5 {
		t.Errorf("got %+v", got)
	}

	if _, err := ConvertAs[testProfile](map[string]any{"name": 12}); err == nil {
		t.Error("expected type error for numeric name")
	}
}
