package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leofalp/costlens/core/costmodel"
)

// DefaultTop is how many recommendations RenderView lists.
const DefaultTop = 5

var (
	colorPrimary = lipgloss.Color("205")
	colorSubtle  = lipgloss.Color("240")
	colorSuccess = lipgloss.Color("42")
	colorError   = lipgloss.Color("196")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	overStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	underStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)
)

// ViewOptions controls RenderView.
type ViewOptions struct {
	// Top limits the listed recommendations. Zero means DefaultTop.
	Top int
	// Plain disables terminal styling.
	Plain bool
}

// RenderView renders the cost summary and the top recommendations for a
// terminal.
func RenderView(r costmodel.CostReport, opts ViewOptions) string {
	top := opts.Top
	if top <= 0 {
		top = DefaultTop
	}
	style := func(s lipgloss.Style, text string) string {
		if opts.Plain {
			return text
		}
		return s.Render(text)
	}

	a, s := r.Analysis, r.Summary
	status := style(underStyle, underBudgetText)
	if a.IsOverBudget {
		status = style(overStyle, overBudgetText)
	}

	var head strings.Builder
	fmt.Fprintf(&head, "%s %s\n", style(labelStyle, "Project:"), orDefault(r.ProjectName, unknown))
	fmt.Fprintf(&head, "%s %s\n", style(labelStyle, "Total Cost:"), FormatINR(a.TotalMonthlyCost))
	fmt.Fprintf(&head, "%s %s\n", style(labelStyle, "Budget:"), FormatINR(a.Budget))
	fmt.Fprintf(&head, "%s %s (%s)\n", style(labelStyle, "Variance:"), FormatINR(a.BudgetVariance), status)
	fmt.Fprintf(&head, "%s %s\n", style(labelStyle, "Potential Savings:"), FormatINR(s.TotalPotentialSavings))
	fmt.Fprintf(&head, "%s %.1f%%\n", style(labelStyle, "Savings Percentage:"), s.SavingsPercentage)
	fmt.Fprintf(&head, "%s %d", style(labelStyle, "Total Recommendations:"), len(r.Recommendations))

	var b strings.Builder
	b.WriteString(style(titleStyle, "COST OPTIMIZATION RECOMMENDATIONS"))
	b.WriteString("\n")
	if opts.Plain {
		b.WriteString(head.String())
	} else {
		b.WriteString(cardStyle.Render(head.String()))
	}
	b.WriteString("\n\n")
	b.WriteString(style(titleStyle, "TOP RECOMMENDATIONS:"))
	b.WriteString("\n\n")

	for i, rec := range r.Recommendations {
		if i == top {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, orDefault(rec.Title, unknown))
		fmt.Fprintf(&b, "   Service: %s\n", orDefault(rec.Service, unknown))
		fmt.Fprintf(&b, "   Current Cost: %s\n", FormatINR(rec.CurrentCost))
		fmt.Fprintf(&b, "   Potential Savings: %s\n", FormatINR(rec.PotentialSavings))
		fmt.Fprintf(&b, "   Effort: %s | Risk: %s\n",
			orDefault(string(rec.ImplementationEffort), unknown), orDefault(string(rec.RiskLevel), unknown))
		fmt.Fprintf(&b, "   Providers: %s\n\n", strings.Join(rec.CloudProviders, ", "))
	}
	if extra := len(r.Recommendations) - top; extra > 0 {
		fmt.Fprintf(&b, "... and %d more recommendations\n", extra)
		b.WriteString(style(labelStyle, "(See cost_optimization_report.json for full details)"))
		b.WriteString("\n")
	}
	return b.String()
}
