package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/leofalp/costlens/core/costmodel"
)

const (
	rule            = "===================="
	notAvailable    = "N/A"
	unknown         = "Unknown"
	overBudgetText  = "OVER BUDGET"
	underBudgetText = "UNDER BUDGET"
)

// FormatINR renders an amount as rupees with thousands separators and two
// decimals, e.g. ₹1,234.56 or ₹-250.30.
func FormatINR(amount costmodel.Amount) string {
	return "₹" + humanize.FormatFloat("#,###.##", amount.Float64())
}

// BudgetStatus returns "OVER BUDGET" or "UNDER BUDGET".
func BudgetStatus(a costmodel.Analysis) string {
	if a.IsOverBudget {
		return overBudgetText
	}
	return underBudgetText
}

// RenderText produces the exported text summary: analysis, per-service
// breakdown by descending cost, optimization summary and every
// recommendation with its steps.
func RenderText(r costmodel.CostReport) string {
	var b strings.Builder
	a, s := r.Analysis, r.Summary

	b.WriteString("\n")
	section(&b, "CLOUD COST OPTIMIZATION REPORT")
	fmt.Fprintf(&b, "\nProject: %s\n", orDefault(r.ProjectName, unknown))
	fmt.Fprintf(&b, "Generated: %s\n\n", orDefault(r.GeneratedDate, notAvailable))

	section(&b, "COST ANALYSIS")
	fmt.Fprintf(&b, "\nTotal Monthly Cost:    %s\n", FormatINR(a.TotalMonthlyCost))
	fmt.Fprintf(&b, "Budget:                %s\n", FormatINR(a.Budget))
	fmt.Fprintf(&b, "Budget Variance:       %s\n", FormatINR(a.BudgetVariance))
	fmt.Fprintf(&b, "Status:                %s\n", BudgetStatus(a))
	b.WriteString("\nCost Breakdown by Service:\n")
	for _, sc := range costmodel.SortServiceCosts(a.ServiceCosts) {
		fmt.Fprintf(&b, "  - %-20s %s\n", sc.Service, FormatINR(sc.Cost))
	}

	b.WriteString("\n")
	section(&b, "OPTIMIZATION SUMMARY")
	fmt.Fprintf(&b, "\nTotal Potential Savings:       %s\n", FormatINR(s.TotalPotentialSavings))
	fmt.Fprintf(&b, "Savings Percentage:            %.1f%%\n", s.SavingsPercentage)
	fmt.Fprintf(&b, "Total Recommendations:         %d\n", s.RecommendationsCount)
	fmt.Fprintf(&b, "High-Impact Recommendations:   %d\n\n", s.HighImpactRecommendations)

	section(&b, "DETAILED RECOMMENDATIONS")
	b.WriteString("\n")
	for i, rec := range r.Recommendations {
		writeRecommendation(&b, i+1, rec)
	}

	section(&b, "END OF REPORT")
	return b.String()
}

func writeRecommendation(b *strings.Builder, n int, rec costmodel.Recommendation) {
	fmt.Fprintf(b, "%d. %s\n", n, orDefault(rec.Title, unknown))
	fmt.Fprintf(b, "   Service:           %s\n", orDefault(rec.Service, unknown))
	fmt.Fprintf(b, "   Type:              %s\n", orDefault(string(rec.RecommendationType), unknown))
	fmt.Fprintf(b, "   Current Cost:      %s\n", FormatINR(rec.CurrentCost))
	fmt.Fprintf(b, "   Potential Savings: %s\n", FormatINR(rec.PotentialSavings))
	fmt.Fprintf(b, "   Implementation:    %s effort, %s risk\n",
		orDefault(string(rec.ImplementationEffort), unknown), orDefault(string(rec.RiskLevel), unknown))
	fmt.Fprintf(b, "   Cloud Providers:   %s\n", strings.Join(rec.CloudProviders, ", "))
	fmt.Fprintf(b, "   \n   Description:\n   %s\n", orDefault(rec.Description, notAvailable))
	b.WriteString("   \n   Implementation Steps:\n")
	for _, step := range rec.Steps {
		fmt.Fprintf(b, "   - %s\n", step)
	}
	b.WriteString("\n")
}

func section(b *strings.Builder, title string) {
	b.WriteString(rule + "\n" + title + "\n" + rule + "\n")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
