package report

import (
	"strings"
	"testing"

	"github.com/leofalp/costlens/core/costmodel"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   costmodel.Amount
		want string
	}{
		{0, "₹0.00"},
		{5, "₹5.00"},
		{1234.5, "₹1,234.50"},
		{1234567.891, "₹1,234,567.89"},
		{-250.3, "₹-250.30"},
	}
	for _, tt := range tests {
		if got := FormatINR(tt.in); got != tt.want {
			t.Errorf("FormatINR(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func sampleReport() costmodel.CostReport {
	return costmodel.CostReport{
		ProjectName:   "Shop",
		GeneratedDate: "2026-03-01 09:30:00",
		Analysis: costmodel.Analysis{
			TotalMonthlyCost: 1250.3,
			Budget:           1000,
			BudgetVariance:   250.3,
			ServiceCosts:     map[string]costmodel.Amount{"S3": 150, "EC2": 500.3},
			IsOverBudget:     true,
		},
		Recommendations: []costmodel.Recommendation{{
			Title:                "Use reserved instances",
			Service:              "EC2",
			CurrentCost:          500.3,
			PotentialSavings:     150,
			RecommendationType:   costmodel.TypeReservedInstances,
			ImplementationEffort: costmodel.LevelLow,
			RiskLevel:            costmodel.LevelLow,
			Steps:                []string{"Analyze usage", "Purchase RIs"},
			CloudProviders:       []string{"AWS", "Azure"},
		}},
		Summary: costmodel.Summary{TotalPotentialSavings: 150, SavingsPercentage: 12.0, RecommendationsCount: 1},
	}
}

func TestRenderText(t *testing.T) {
	text := RenderText(sampleReport())

	for _, want := range []string{
		"CLOUD COST OPTIMIZATION REPORT",
		"Project: Shop",
		"Generated: 2026-03-01 09:30:00",
		"Total Monthly Cost:    ₹1,250.30",
		"Status:                OVER BUDGET",
		"Savings Percentage:            12.0%",
		"1. Use reserved instances",
		"   Implementation:    low effort, low risk",
		"   Cloud Providers:   AWS, Azure",
		"   Description:\n   N/A",
		"   - Purchase RIs",
		"END OF REPORT",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q\n%s", want, text)
		}
	}

	// Services are listed by descending cost.
	if strings.Index(text, "  - EC2") > strings.Index(text, "  - S3") {
		t.Error("EC2 should be listed before S3")
	}
}

func TestRenderText_Defaults(t *testing.T) {
	text := RenderText(costmodel.CostReport{})
	if !strings.Contains(text, "Project: Unknown") || !strings.Contains(text, "Generated: N/A") {
		t.Errorf("missing defaults:\n%s", text)
	}
	if !strings.Contains(text, "UNDER BUDGET") {
		t.Error("zero report should be under budget")
	}
}
