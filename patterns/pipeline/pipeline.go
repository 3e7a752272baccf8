package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leofalp/costlens/core/costmodel"
	"github.com/leofalp/costlens/core/parse"
	"github.com/leofalp/costlens/core/report"
	"github.com/leofalp/costlens/core/schema"
	"github.com/leofalp/costlens/core/structured"
	"github.com/leofalp/costlens/providers/observability"
	"github.com/leofalp/costlens/providers/storage/filestore"
)

// Stage names.
const (
	StageProfile  = "profile"
	StageBilling  = "billing"
	StageAnalysis = "analysis"
)

const maxRecommendations = 10

// Stage is one step of the pipeline.
type Stage interface {
	// Name identifies the stage in logs, spans and history.
	Name() string
	// Output is the artifact written on success.
	Output() string
	// Execute runs the stage once. It writes Output only on success.
	Execute(ctx context.Context) error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver sets the observability provider used for stage spans,
// metrics and logs.
func WithObserver(p observability.Provider) Option {
	return func(pl *Pipeline) {
		if p != nil {
			pl.observer = p
		}
	}
}

// WithMinBillingRecords sets the minimum number of billing records accepted
// from the model. Values below 1 are ignored.
func WithMinBillingRecords(n int) Option {
	return func(pl *Pipeline) {
		if n >= 1 {
			pl.minBillingRecords = n
		}
	}
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) {
		if now != nil {
			pl.now = now
		}
	}
}

// Pipeline runs the profile, billing and analysis stages against one store.
type Pipeline struct {
	store             *filestore.Store
	orchestrator      *structured.Orchestrator
	observer          observability.Provider
	minBillingRecords int
	now               func() time.Time
	stages            []Stage
}

// New builds a pipeline. The orchestrator is shared by all stages.
func New(store *filestore.Store, orchestrator *structured.Orchestrator, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:             store,
		orchestrator:      orchestrator,
		observer:          observability.Nop(),
		minBillingRecords: schema.MinBillingRecords,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.stages = []Stage{
		&ProfileStage{p: p},
		&BillingStage{p: p},
		&AnalysisStage{p: p},
	}
	return p
}

// Store returns the artifact store.
func (p *Pipeline) Store() *filestore.Store { return p.store }

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Run executes every stage in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) error {
	for i, stage := range p.stages {
		p.observer.Info(ctx, fmt.Sprintf("stage %d/%d", i+1, len(p.stages)),
			observability.String(observability.AttrStage, stage.Name()))
		if err := p.runStage(ctx, stage); err != nil {
			return err
		}
	}
	return nil
}

// RunStage executes the named stage only.
func (p *Pipeline) RunStage(ctx context.Context, name string) error {
	for _, stage := range p.stages {
		if stage.Name() == name {
			return p.runStage(ctx, stage)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage) error {
	ctx = structured.ContextWithLabel(ctx, stage.Name())
	ctx, state := p.observeStageStart(ctx, stage)
	err := stage.Execute(ctx)
	p.observeStageEnd(ctx, state, err)
	if err != nil {
		return fmt.Errorf("%s stage: %w", stage.Name(), err)
	}
	return nil
}

// Describe saves the free-text project description read by the profile
// stage.
func (p *Pipeline) Describe(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyDescription
	}
	return p.store.SaveText(filestore.DescriptionFile, text)
}

// LoadReport reads the cost report written by the analysis stage.
func (p *Pipeline) LoadReport() (*costmodel.CostReport, error) {
	var r costmodel.CostReport
	if err := p.loadJSON(filestore.ReportFile, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ExportSummary renders the saved report as text and returns the path of
// the summary file.
func (p *Pipeline) ExportSummary() (string, error) {
	r, err := p.LoadReport()
	if err != nil {
		return "", err
	}
	if err := p.store.SaveText(filestore.SummaryFile, report.RenderText(*r)); err != nil {
		return "", err
	}
	return p.store.Path(filestore.SummaryFile), nil
}

// generate runs the orchestrator and maps its failures to ErrGenerationFailed.
func (p *Pipeline) generate(ctx context.Context, prompt string, shape parse.Shape) (*structured.Result, error) {
	result, err := p.orchestrator.Run(ctx, prompt, shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return result, nil
}

// loadArtifact reads a JSON artifact written by an earlier stage. Hand edits
// that jsonrepair can fix are accepted. The value must pass validate before
// it is decoded into T.
func loadArtifact[T any](p *Pipeline, name string, validate func(any) *schema.Violation) (T, error) {
	var zero T
	text, err := p.loadText(name)
	if err != nil {
		return zero, err
	}
	value, err := parse.ParseStringAs[any](text)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrInvalidArtifact, p.store.Path(name), err)
	}
	if v := validate(value); v != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrInvalidArtifact, p.store.Path(name), v)
	}
	out, err := parse.ConvertAs[T](value)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrInvalidArtifact, p.store.Path(name), err)
	}
	return out, nil
}

func (p *Pipeline) loadProfile() (costmodel.ProjectProfile, error) {
	return loadArtifact[costmodel.ProjectProfile](p, filestore.ProfileFile, schema.Profile)
}

func (p *Pipeline) loadBilling() ([]costmodel.BillingRecord, error) {
	return loadArtifact[[]costmodel.BillingRecord](p, filestore.BillingFile, func(v any) *schema.Violation {
		return schema.Billing(v, p.minBillingRecords)
	})
}

func (p *Pipeline) loadText(name string) (string, error) {
	text, err := p.store.LoadText(name)
	if errors.Is(err, filestore.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrMissingArtifact, p.store.Path(name))
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingArtifact, p.store.Path(name))
	}
	return text, nil
}

func (p *Pipeline) loadJSON(name string, out any) error {
	err := p.store.LoadJSON(name, out)
	if errors.Is(err, filestore.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrMissingArtifact, p.store.Path(name))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	return nil
}

func invalidOutput(v *schema.Violation) error {
	return fmt.Errorf("%w: %w", ErrInvalidOutput, v)
}
