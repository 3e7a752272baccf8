package structured

import (
	"context"
	"time"

	"github.com/leofalp/costlens/core/parse"
)

// Outcome classifies a single attempt.
type Outcome string

const (
	OutcomeSucceeded      Outcome = "succeeded"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeNoJSON         Outcome = "no_json"
	OutcomeShapeMismatch  Outcome = "shape_mismatch"
)

// Attempt is the record of one generator call.
type Attempt struct {
	Number int
	// Escalations is how many clauses were applied to Prompt.
	Escalations int
	Prompt      string
	Response    string
	Outcome     Outcome
	// Error is the failure description, empty on success.
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// Run summarizes one call to Orchestrator.Run.
type Run struct {
	// Label names the caller, e.g. a pipeline stage. See ContextWithLabel.
	Label      string
	Shape      parse.Shape
	Attempts   []Attempt
	Succeeded  bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Recorder persists finished runs. Recording errors are logged and never
// change the outcome of a run.
type Recorder interface {
	RecordRun(ctx context.Context, run Run) error
}

type labelKey struct{}

// ContextWithLabel tags runs started with ctx.
func ContextWithLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, labelKey{}, label)
}

// LabelFromContext returns the label set by ContextWithLabel.
func LabelFromContext(ctx context.Context) string {
	label, _ := ctx.Value(labelKey{}).(string)
	return label
}
