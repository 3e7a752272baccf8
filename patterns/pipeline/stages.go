package pipeline

import (
	"context"
	"fmt"

	"github.com/leofalp/costlens/core/costmodel"
	"github.com/leofalp/costlens/core/parse"
	"github.com/leofalp/costlens/core/report"
	"github.com/leofalp/costlens/core/schema"
	"github.com/leofalp/costlens/core/structured"
	"github.com/leofalp/costlens/providers/observability"
	"github.com/leofalp/costlens/providers/storage/filestore"
)

// ProfileStage turns the project description into a ProjectProfile.
type ProfileStage struct{ p *Pipeline }

func (s *ProfileStage) Name() string   { return StageProfile }
func (s *ProfileStage) Output() string { return filestore.ProfileFile }

func (s *ProfileStage) Execute(ctx context.Context) error {
	description, err := s.p.loadText(filestore.DescriptionFile)
	if err != nil {
		return err
	}

	result, err := s.p.generate(ctx, ProfilePrompt(description), parse.ShapeObject)
	if err != nil {
		return err
	}
	if v := schema.Profile(result.Value); v != nil {
		return invalidOutput(v)
	}
	profile, err := structured.Decode[costmodel.ProjectProfile](result)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}

	if err := s.p.store.SaveJSON(s.Output(), profile); err != nil {
		return err
	}
	s.p.observer.Info(ctx, "project profile extracted",
		observability.String("project", profile.Name),
		observability.String("budget", report.FormatINR(profile.BudgetINRPerMonth)),
		observability.String("tech_stack", profile.TechStack.String()),
	)
	return nil
}

// BillingStage generates synthetic billing records for the saved profile.
type BillingStage struct{ p *Pipeline }

func (s *BillingStage) Name() string   { return StageBilling }
func (s *BillingStage) Output() string { return filestore.BillingFile }

func (s *BillingStage) Execute(ctx context.Context) error {
	profile, err := s.p.loadProfile()
	if err != nil {
		return err
	}

	result, err := s.p.generate(ctx, BillingPrompt(profile, schema.BillingTarget), parse.ShapeArray)
	if err != nil {
		return err
	}
	if v := schema.Billing(result.Value, s.p.minBillingRecords); v != nil {
		return invalidOutput(v)
	}
	records, err := structured.Decode[[]costmodel.BillingRecord](result)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}

	if err := s.p.store.SaveJSON(s.Output(), records); err != nil {
		return err
	}
	analysis := costmodel.Analyze(profile, records)
	s.p.observer.Info(ctx, "billing records generated",
		observability.Int(observability.AttrRecords, len(records)),
		observability.String("total", report.FormatINR(analysis.TotalMonthlyCost)),
	)
	return nil
}

// AnalysisStage computes the cost analysis and asks the model for
// recommendations, producing the final CostReport.
type AnalysisStage struct{ p *Pipeline }

func (s *AnalysisStage) Name() string   { return StageAnalysis }
func (s *AnalysisStage) Output() string { return filestore.ReportFile }

func (s *AnalysisStage) Execute(ctx context.Context) error {
	profile, err := s.p.loadProfile()
	if err != nil {
		return err
	}
	records, err := s.p.loadBilling()
	if err != nil {
		return err
	}

	analysis := costmodel.Analyze(profile, records)
	result, err := s.p.generate(ctx, RecommendationsPrompt(profile, analysis), parse.ShapeArray)
	if err != nil {
		return err
	}

	// Validate the raw recommendations inside the report envelope so that
	// violation paths point at the offending element.
	draft := map[string]any{
		"project_name":    profile.Name,
		"analysis":        analysis,
		"recommendations": result.Value,
	}
	if v := schema.Report(draft); v != nil {
		return invalidOutput(v)
	}
	recs, err := structured.Decode[[]costmodel.Recommendation](result)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	for i, rec := range recs {
		if !rec.RecommendationType.Valid() {
			s.p.observer.Warn(ctx, "unknown recommendation type",
				observability.Int("index", i),
				observability.String("type", string(rec.RecommendationType)))
		}
	}

	costReport := costmodel.BuildReport(profile, analysis, recs, s.p.now())
	if err := s.p.store.SaveJSON(s.Output(), costReport); err != nil {
		return err
	}
	s.p.observer.Info(ctx, "cost report generated",
		observability.Int(observability.AttrRecords, costReport.Summary.RecommendationsCount),
		observability.String("savings", report.FormatINR(costReport.Summary.TotalPotentialSavings)),
		observability.Float64("savings_pct", costReport.Summary.SavingsPercentage),
		observability.Int("high_impact", costReport.Summary.HighImpactRecommendations),
	)
	return nil
}
