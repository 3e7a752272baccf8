package pipeline

import (
	"context"
	"errors"

	"github.com/leofalp/costlens/internal/utils"
	"github.com/leofalp/costlens/providers/observability"
)

// metricStageDuration is the histogram of stage durations in seconds.
const metricStageDuration = "costlens.pipeline.stage.duration"

type stageState struct {
	name  string
	span  observability.Span
	timer *utils.Timer
}

func (p *Pipeline) observeStageStart(ctx context.Context, stage Stage) (context.Context, *stageState) {
	ctx, span := p.observer.StartSpan(ctx, observability.SpanStage,
		observability.String(observability.AttrStage, stage.Name()),
		observability.String(observability.AttrArtifact, stage.Output()),
	)
	ctx = observability.ContextWithObserver(ctx, p.observer)
	return ctx, &stageState{name: stage.Name(), span: span, timer: utils.NewTimer()}
}

func (p *Pipeline) observeStageEnd(ctx context.Context, state *stageState, err error) {
	defer state.span.End()

	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, context.Canceled) {
			status = "cancelled"
		}
	}
	attrs := []observability.Attribute{
		observability.String(observability.AttrStage, state.name),
		observability.String(observability.AttrStatus, status),
	}
	p.observer.Counter(observability.MetricStageRuns).Add(ctx, 1, attrs...)
	p.observer.Histogram(metricStageDuration).Record(ctx, state.timer.Seconds(), attrs...)

	if err != nil {
		state.span.RecordError(err)
		state.span.SetStatus(observability.StatusError, err.Error())
		p.observer.Error(ctx, "stage failed",
			observability.String(observability.AttrStage, state.name),
			observability.Duration(observability.AttrDuration, state.timer.Elapsed()),
			observability.Error(err),
		)
		return
	}
	state.span.SetStatus(observability.StatusOK, "")
	p.observer.Info(ctx, "stage completed",
		observability.String(observability.AttrStage, state.name),
		observability.Duration(observability.AttrDuration, state.timer.Elapsed()),
	)
}
