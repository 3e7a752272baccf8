package structured

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leofalp/costlens/core/parse"
	"github.com/leofalp/costlens/internal/utils"
	"github.com/leofalp/costlens/providers/observability"
)

// Generator produces text for a prompt. core/client.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Orchestrator runs the bounded generate, extract and shape-check loop.
// It holds no per-run state and is safe to reuse.
type Orchestrator struct {
	generator   Generator
	maxAttempts int
	escalations []string
	extractor   *parse.Extractor
	backoff     time.Duration
	recorder    Recorder
	observer    observability.Provider
}

// Result is the outcome of a run. On failure Value is nil and Attempts holds
// the full history.
type Result struct {
	Value    any
	Shape    parse.Shape
	Attempts []Attempt
}

// New creates an Orchestrator around gen.
func New(gen Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		generator:   gen,
		maxAttempts: DefaultMaxAttempts,
		escalations: []string{DefaultEscalation},
		extractor:   parse.NewExtractor(),
		observer:    observability.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MaxAttempts returns the configured retry budget.
func (o *Orchestrator) MaxAttempts() int {
	return o.maxAttempts
}

// BuildPrompt renders the text sent for an attempt: the base prompt, then the
// applied escalation clauses, then the standing instruction.
func BuildPrompt(base string, clauses []string) string {
	var sb strings.Builder
	sb.WriteString(base)
	for _, clause := range clauses {
		sb.WriteString("\n\n")
		sb.WriteString(clause)
	}
	sb.WriteString("\n\n")
	sb.WriteString(StandingInstruction)
	return sb.String()
}

// Run asks the generator for a JSON value of the given shape. It returns an
// error wrapping ErrAttemptsExhausted and the last failure class when the
// budget runs out, or ctx.Err() when the context ends first.
func (o *Orchestrator) Run(ctx context.Context, prompt string, shape parse.Shape) (*Result, error) {
	run := Run{Label: LabelFromContext(ctx), Shape: shape, StartedAt: time.Now()}
	ctx, span := o.observer.StartSpan(ctx, observability.SpanExtract,
		observability.String(observability.AttrShape, string(shape)),
		observability.Int(observability.AttrMaxAttempts, o.maxAttempts),
	)
	defer span.End()

	result := &Result{Shape: shape}
	var applied []string
	var lastErr error

	for n := 1; n <= o.maxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return o.finish(ctx, span, run, result, err)
		}
		if n > 1 && o.backoff > 0 {
			select {
			case <-ctx.Done():
				return o.finish(ctx, span, run, result, ctx.Err())
			case <-time.After(o.backoff):
			}
		}

		attempt, value, err := o.attempt(ctx, n, BuildPrompt(prompt, applied), len(applied), shape)
		result.Attempts = append(result.Attempts, attempt)
		run.Attempts = append(run.Attempts, attempt)
		o.observer.Counter(observability.MetricAttempts).Add(ctx, 1,
			observability.String(observability.AttrOutcome, string(attempt.Outcome)))

		if err == nil {
			result.Value = value
			run.Succeeded = true
			span.SetStatus(observability.StatusOK, "")
			o.observer.Info(ctx, "structured output extracted",
				observability.Int(observability.AttrAttempt, n),
				observability.String(observability.AttrShape, string(shape)),
			)
			return o.finish(ctx, span, run, result, nil)
		}

		// A context that ended during the call is not a model failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return o.finish(ctx, span, run, result, ctxErr)
		}

		lastErr = err
		o.observer.Warn(ctx, "attempt failed",
			observability.Int(observability.AttrAttempt, n),
			observability.Int(observability.AttrMaxAttempts, o.maxAttempts),
			observability.String(observability.AttrOutcome, string(attempt.Outcome)),
			observability.Error(err),
		)
		if attempt.Outcome != OutcomeTransportError {
			o.observer.Counter(observability.MetricExtractionFailures).Add(ctx, 1,
				observability.String(observability.AttrOutcome, string(attempt.Outcome)))
			applied = o.escalate(applied)
		}
	}

	err := fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, o.maxAttempts, lastErr)
	return o.finish(ctx, span, run, result, err)
}

// attempt performs one generator call and classifies the reply.
func (o *Orchestrator) attempt(ctx context.Context, n int, prompt string, escalations int, shape parse.Shape) (Attempt, any, error) {
	timer := utils.NewTimer()
	attempt := Attempt{
		Number:      n,
		Escalations: escalations,
		Prompt:      prompt,
		StartedAt:   time.Now(),
	}
	fail := func(outcome Outcome, err error) (Attempt, any, error) {
		attempt.Outcome = outcome
		attempt.Error = err.Error()
		attempt.Duration = timer.Elapsed()
		return attempt, nil, err
	}

	text, err := o.generator.Generate(ctx, prompt)
	attempt.Response = text
	if err != nil {
		return fail(OutcomeTransportError, fmt.Errorf("%w: %w", ErrTransport, err))
	}
	if strings.TrimSpace(text) == "" {
		return fail(OutcomeTransportError, fmt.Errorf("%w: empty response", ErrTransport))
	}

	value, ok := o.extractor.Extract(text)
	if !ok || parse.IsEmpty(value) {
		return fail(OutcomeNoJSON, fmt.Errorf("%w in %q", ErrNoJSON, utils.TruncateString(text, 80)))
	}
	if got := parse.ShapeOf(value); got != shape {
		return fail(OutcomeShapeMismatch, fmt.Errorf("%w: expected %s, got %s", ErrShapeMismatch, shape, got))
	}

	attempt.Outcome = OutcomeSucceeded
	attempt.Duration = timer.Elapsed()
	return attempt, value, nil
}

// escalate appends the next clause. After the list is used up the last
// clause is repeated.
func (o *Orchestrator) escalate(applied []string) []string {
	if len(o.escalations) == 0 {
		return applied
	}
	idx := min(len(applied), len(o.escalations)-1)
	return append(applied, o.escalations[idx])
}

func (o *Orchestrator) finish(ctx context.Context, span observability.Span, run Run, result *Result, err error) (*Result, error) {
	run.FinishedAt = time.Now()
	span.SetAttributes(observability.Int(observability.AttrAttempt, len(run.Attempts)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, err.Error())
		result.Value = nil
		if !errors.Is(err, ErrAttemptsExhausted) {
			o.observer.Warn(ctx, "extraction aborted", observability.Error(err))
		} else {
			o.observer.Error(ctx, "all attempts exhausted",
				observability.Int(observability.AttrMaxAttempts, o.maxAttempts),
				observability.Error(err))
		}
	}
	if o.recorder != nil {
		// Recording must survive a cancelled run context.
		if recErr := o.recorder.RecordRun(context.WithoutCancel(ctx), run); recErr != nil {
			o.observer.Warn(ctx, "failed to record run", observability.Error(recErr))
		}
	}
	return result, err
}

// Decode converts a successful result into T.
func Decode[T any](result *Result) (T, error) {
	var zero T
	if result == nil || result.Value == nil {
		return zero, fmt.Errorf("decode: %w", ErrNoJSON)
	}
	return parse.ConvertAs[T](result.Value)
}
