package costmodel

// RecommendationType is the fixed set of optimization categories.
type RecommendationType string

const (
	TypeAlternativeProvider  RecommendationType = "alternative_provider"
	TypeOpenSource           RecommendationType = "open_source"
	TypeFreeTier             RecommendationType = "free_tier"
	TypeRightSizing          RecommendationType = "right_sizing"
	TypeReservedInstances    RecommendationType = "reserved_instances"
	TypeOptimization         RecommendationType = "optimization"
	TypeCostEffectiveStorage RecommendationType = "cost_effective_storage"
)

// RecommendationTypes lists every valid RecommendationType in prompt order.
var RecommendationTypes = []RecommendationType{
	TypeAlternativeProvider, TypeOpenSource, TypeFreeTier, TypeRightSizing,
	TypeReservedInstances, TypeOptimization, TypeCostEffectiveStorage,
}

// Valid reports whether t is a known type.
func (t RecommendationType) Valid() bool {
	for _, known := range RecommendationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Level grades implementation effort and risk.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Valid reports whether l is low, medium or high.
func (l Level) Valid() bool {
	return l == LevelLow || l == LevelMedium || l == LevelHigh
}

// ProjectProfile is the structured form of a project description.
type ProjectProfile struct {
	Name                      string     `json:"name"`
	BudgetINRPerMonth         Amount     `json:"budget_inr_per_month"`
	Description               string     `json:"description"`
	TechStack                 TechStack  `json:"tech_stack"`
	NonFunctionalRequirements StringList `json:"non_functional_requirements"`
}

// BillingRecord is one line of a synthetic monthly bill.
type BillingRecord struct {
	Month         string `json:"month"`
	Service       string `json:"service"`
	ResourceID    string `json:"resource_id"`
	Region        string `json:"region"`
	UsageType     string `json:"usage_type"`
	UsageQuantity Amount `json:"usage_quantity"`
	Unit          string `json:"unit"`
	CostINR       Amount `json:"cost_inr"`
	Desc          string `json:"desc"`
}

// Recommendation is one cost optimization suggestion.
type Recommendation struct {
	Title                string             `json:"title"`
	Service              string             `json:"service"`
	CurrentCost          Amount             `json:"current_cost"`
	PotentialSavings     Amount             `json:"potential_savings"`
	RecommendationType   RecommendationType `json:"recommendation_type"`
	Description          string             `json:"description"`
	ImplementationEffort Level              `json:"implementation_effort"`
	RiskLevel            Level              `json:"risk_level"`
	Steps                StringList         `json:"steps"`
	CloudProviders       StringList         `json:"cloud_providers"`
}

// Analysis is the deterministic cost breakdown of a bill against a budget.
type Analysis struct {
	TotalMonthlyCost Amount            `json:"total_monthly_cost"`
	Budget           Amount            `json:"budget"`
	BudgetVariance   Amount            `json:"budget_variance"`
	ServiceCosts     map[string]Amount `json:"service_costs"`
	HighCostServices map[string]Amount `json:"high_cost_services"`
	IsOverBudget     bool              `json:"is_over_budget"`
}

// Summary aggregates a recommendation list.
type Summary struct {
	TotalPotentialSavings     Amount  `json:"total_potential_savings"`
	SavingsPercentage         float64 `json:"savings_percentage"`
	RecommendationsCount      int     `json:"recommendations_count"`
	HighImpactRecommendations int     `json:"high_impact_recommendations"`
}

// CostReport is the final pipeline artifact.
type CostReport struct {
	ProjectName     string           `json:"project_name"`
	GeneratedDate   string           `json:"generated_date,omitempty"`
	Analysis        Analysis         `json:"analysis"`
	Recommendations []Recommendation `json:"recommendations"`
	Summary         Summary          `json:"summary"`
}
