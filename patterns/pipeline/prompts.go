package pipeline

import (
	"fmt"
	"strings"

	"github.com/leofalp/costlens/core/costmodel"
	"github.com/leofalp/costlens/core/report"
	"github.com/leofalp/costlens/core/schema"
	"github.com/leofalp/costlens/internal/utils"
)

// ProfilePrompt asks for a project profile object extracted from a free-text
// description.
func ProfilePrompt(description string) string {
	return `You are a cloud infrastructure analyst. Extract a structured project profile from the given description.

Project Description:
` + description + `

Your task: Analyze the description and extract the following information into a JSON object:
- name: A concise project name (string)
- budget_inr_per_month: Monthly budget in Indian Rupees (number, extract from description or estimate if not mentioned)
- description: A brief 1-2 sentence summary (string)
- tech_stack: An object containing technologies mentioned (e.g., frontend, backend, database, hosting, proxy, etc.)
- non_functional_requirements: An array of requirements like scalability, monitoring, security, etc.

CRITICAL RULES:
1. Respond with ONLY a valid JSON object
2. No explanations, no markdown formatting, no code blocks
3. All field names must match exactly as specified
4. budget_inr_per_month must be a number (not a string)
5. If budget is not mentioned, estimate based on project scale (small: 3000-10000, medium: 10000-50000, large: 50000+)

Example output format:
{
  "name": "Project Name",
  "budget_inr_per_month": 25000,
  "description": "Brief project summary",
  "tech_stack": {
    "frontend": "react",
    "backend": "nodejs",
    "database": "postgresql",
    "hosting": "aws"
  },
  "non_functional_requirements": ["scalability", "monitoring"]
}

Now extract the profile from the description above. Respond with ONLY the JSON object:`
}

// BillingPrompt asks for count synthetic billing records sized to the
// profile's budget.
func BillingPrompt(profile costmodel.ProjectProfile, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d realistic cloud billing records as a JSON array.\n\n", count)
	fmt.Fprintf(&b, "Project: %s\n", nameOr(profile.Name, "Unknown Project"))
	fmt.Fprintf(&b, "Budget: %s/month\n", budgetText(profile.BudgetINRPerMonth))
	fmt.Fprintf(&b, "Tech Stack: %s\n\n", profile.TechStack.String())
	fmt.Fprintf(&b, "Generate exactly %d billing records. Total cost should be around %s (90-110%% of budget).\n\n",
		count, budgetText(profile.BudgetINRPerMonth))
	b.WriteString(`Each record MUST have these fields:
- month: "2025-01"
- service: service name (EC2, RDS, S3, Lambda, CloudWatch, etc.)
- resource_id: unique ID (e.g., "i-web-01")
- region: "ap-south-1"
- usage_type: usage type description
- usage_quantity: number
- unit: "hours", "GB", "requests", etc.
- cost_inr: cost in rupees (number)
- desc: brief description

Example record:
{
  "month": "2025-01",
  "service": "EC2",
  "resource_id": "i-web-01",
  "region": "ap-south-1",
  "usage_type": "t3.medium",
  "usage_quantity": 720,
  "unit": "hours",
  "cost_inr": 2500,
  "desc": "Web server"
}

IMPORTANT:
- Respond with ONLY the JSON array
- Start with [ and end with ]
`)
	fmt.Fprintf(&b, "- Include exactly %d records\n", count)
	b.WriteString(`- No explanations or markdown
- Distribute costs across: Compute (40%), Database (25%), Storage (15%), Networking (10%), Other (10%)

Generate the JSON array now:`)
	return b.String()
}

// RecommendationsPrompt asks for between MinRecommendations and
// maxRecommendations optimization suggestions for the analysed bill.
func RecommendationsPrompt(profile costmodel.ProjectProfile, analysis costmodel.Analysis) string {
	var services strings.Builder
	for i, sc := range costmodel.SortServiceCosts(analysis.ServiceCosts) {
		if i > 0 {
			services.WriteString("\n")
		}
		fmt.Fprintf(&services, "  - %s: %s", sc.Service, report.FormatINR(sc.Cost))
	}

	direction := "UNDER"
	if analysis.IsOverBudget {
		direction = "OVER"
	}

	types := make([]string, 0, len(costmodel.RecommendationTypes))
	for _, t := range costmodel.RecommendationTypes {
		types = append(types, fmt.Sprintf("%q", t))
	}

	techStack := "{}"
	if len(profile.TechStack) > 0 {
		techStack = utils.JSONToString(profile.TechStack, true)
	}

	var b strings.Builder
	b.WriteString("You are a cloud cost optimization expert. Generate actionable cost optimization recommendations.\n\n")
	fmt.Fprintf(&b, "Project: %s\n", nameOr(profile.Name, costmodel.UnknownProject))
	fmt.Fprintf(&b, "Budget: %s per month\n", report.FormatINR(analysis.Budget))
	fmt.Fprintf(&b, "Current Cost: %s per month\n", report.FormatINR(analysis.TotalMonthlyCost))
	fmt.Fprintf(&b, "Budget Variance: %s (%s budget)\n\n", report.FormatINR(analysis.BudgetVariance), direction)
	fmt.Fprintf(&b, "Service Costs:\n%s\n\n", services.String())
	fmt.Fprintf(&b, "Tech Stack: %s\n\n", techStack)
	fmt.Fprintf(&b, "Your task: Generate %d-%d actionable cost optimization recommendations.\n\n", schema.MinRecommendations, maxRecommendations)
	fmt.Fprintf(&b, `CRITICAL RULES:
1. Respond with ONLY a valid JSON array of recommendations
2. No explanations, no markdown, no code blocks
3. Include recommendations for: AWS, Azure, GCP alternatives, open-source options, reserved instances, right-sizing, free tiers
4. Each recommendation must have these exact fields:
   - title: Short descriptive title (string)
   - service: Service being optimized (string)
   - current_cost: Current cost in INR (number)
   - potential_savings: Estimated savings in INR (number)
   - recommendation_type: One of: %s
   - description: Detailed explanation (string)
   - implementation_effort: "low", "medium", or "high"
   - risk_level: "low", "medium", or "high"
   - steps: Array of implementation steps (array of strings)
   - cloud_providers: Array of applicable providers like ["AWS", "Azure", "GCP"] or ["Open Source"] (array of strings)

Example recommendation:
{
  "title": "Switch to Reserved Instances for EC2",
  "service": "EC2",
  "current_cost": 5000,
  "potential_savings": 1500,
  "recommendation_type": "reserved_instances",
  "description": "Reserved instances offer significant savings for predictable workloads",
  "implementation_effort": "low",
  "risk_level": "low",
  "steps": [
    "Analyze EC2 usage patterns",
    "Purchase 1-year reserved instances",
    "Monitor savings"
  ],
  "cloud_providers": ["AWS", "Azure", "GCP"]
}

`, strings.Join(types, ", "))
	fmt.Fprintf(&b, "Generate %d-%d diverse recommendations now. Respond with ONLY the JSON array:", schema.MinRecommendations, maxRecommendations)
	return b.String()
}

func budgetText(budget costmodel.Amount) string {
	if budget == 0 {
		return "Not specified"
	}
	return report.FormatINR(budget)
}

func nameOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
