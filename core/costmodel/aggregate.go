package costmodel

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// UnknownService groups billing records without a service name.
	UnknownService = "Unknown"

	// UnknownProject names reports for profiles without a name.
	UnknownProject = "Unknown"

	// TopServices is how many services Analysis.HighCostServices keeps.
	TopServices = 3

	// GeneratedDateLayout formats CostReport.GeneratedDate.
	GeneratedDateLayout = "2006-01-02 15:04:05"
)

// highImpactRatio marks a recommendation as high impact when it saves more
// than this share of its current cost.
var highImpactRatio = decimal.NewFromFloat(0.2)

// ServiceCost pairs a service with its total cost.
type ServiceCost struct {
	Service string
	Cost    Amount
}

// Analyze totals records per service and compares the total to the budget.
func Analyze(profile ProjectProfile, records []BillingRecord) Analysis {
	total := decimal.Zero
	perService := make(map[string]decimal.Decimal)
	for _, r := range records {
		cost := r.CostINR.Decimal()
		total = total.Add(cost)
		service := strings.TrimSpace(r.Service)
		if service == "" {
			service = UnknownService
		}
		perService[service] = perService[service].Add(cost)
	}

	budget := profile.BudgetINRPerMonth.Decimal()
	serviceCosts := make(map[string]Amount, len(perService))
	for service, cost := range perService {
		serviceCosts[service] = round2(cost)
	}

	high := make(map[string]Amount, TopServices)
	for i, sc := range SortServiceCosts(serviceCosts) {
		if i == TopServices {
			break
		}
		high[sc.Service] = sc.Cost
	}

	return Analysis{
		TotalMonthlyCost: round2(total),
		Budget:           profile.BudgetINRPerMonth,
		BudgetVariance:   round2(total.Sub(budget)),
		ServiceCosts:     serviceCosts,
		HighCostServices: high,
		IsOverBudget:     total.GreaterThan(budget),
	}
}

// SortServiceCosts orders services by cost descending, then by name.
func SortServiceCosts(costs map[string]Amount) []ServiceCost {
	out := make([]ServiceCost, 0, len(costs))
	for service, cost := range costs {
		out = append(out, ServiceCost{Service: service, Cost: cost})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost > out[j].Cost
		}
		return out[i].Service < out[j].Service
	})
	return out
}

// Summarize aggregates recs against the analysed total. The savings
// percentage is 0 when the total cost is not positive.
func Summarize(analysis Analysis, recs []Recommendation) Summary {
	savings := decimal.Zero
	highImpact := 0
	for _, rec := range recs {
		s := rec.PotentialSavings.Decimal()
		savings = savings.Add(s)
		if s.GreaterThan(rec.CurrentCost.Decimal().Mul(highImpactRatio)) {
			highImpact++
		}
	}

	pct := decimal.Zero
	total := analysis.TotalMonthlyCost.Decimal()
	if total.IsPositive() {
		pct = savings.Mul(decimal.NewFromInt(100)).Div(total)
	}

	return Summary{
		TotalPotentialSavings:     round2(savings),
		SavingsPercentage:         pct.Round(2).InexactFloat64(),
		RecommendationsCount:      len(recs),
		HighImpactRecommendations: highImpact,
	}
}

// BuildReport assembles a CostReport stamped with now.
func BuildReport(profile ProjectProfile, analysis Analysis, recs []Recommendation, now time.Time) CostReport {
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = UnknownProject
	}
	return CostReport{
		ProjectName:     name,
		GeneratedDate:   now.Format(GeneratedDateLayout),
		Analysis:        analysis,
		Recommendations: recs,
		Summary:         Summarize(analysis, recs),
	}
}
