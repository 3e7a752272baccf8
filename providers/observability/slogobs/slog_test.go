package slogobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/leofalp/costlens/providers/observability"
)

func newTestObserver(buf *bytes.Buffer) *Observer {
	return New(WithOutput(buf), WithLevel(slog.LevelDebug), WithFormat(FormatCompact), WithColors(false))
}

// TestObserver_SpanLifecycle checks start, status, error and end events and
// that the span is reachable from the returned context.
func TestObserver_SpanLifecycle(t *testing.T) {
	var buf bytes.Buffer
	obs := newTestObserver(&buf)

	ctx, span := obs.StartSpan(context.Background(), observability.SpanStage,
		observability.String(observability.AttrStage, "profile"))
	if observability.SpanFromContext(ctx) != span {
		t.Fatal("returned context should carry the span")
	}
	span.SetAttributes(observability.Int(observability.AttrRecords, 3))
	span.RecordError(errors.New("boom"))
	span.SetStatus(observability.StatusError, "failed")
	span.End()
	span.End()

	output := buf.String()
	for _, want := range []string{"span started", "span error", `"status":"error"`, `"pipeline.records":3`, `"status_description":"failed"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if n := strings.Count(output, "span ended"); n != 1 {
		t.Errorf("span ended logged %d times, want 1", n)
	}
}

func TestObserver_Metrics(t *testing.T) {
	var buf bytes.Buffer
	obs := newTestObserver(&buf)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obs.Counter(observability.MetricAttempts).Add(ctx, 1)
		}()
	}
	wg.Wait()

	if got := obs.CounterValue(observability.MetricAttempts); got != 10 {
		t.Errorf("counter = %d, want 10", got)
	}
	if got := obs.CounterValue("never.used"); got != 0 {
		t.Errorf("unused counter = %d, want 0", got)
	}

	h := obs.Histogram(observability.MetricClientRequestDuration)
	h.Record(ctx, 0.5)
	h.Record(ctx, 1.5)
	count, sum := obs.HistogramSummary(observability.MetricClientRequestDuration)
	if count != 2 || sum != 2.0 {
		t.Errorf("histogram = (%d, %v), want (2, 2)", count, sum)
	}
}

func TestObserver_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	obs := New(WithOutput(&buf), WithLevel(slog.LevelInfo), WithColors(false))
	ctx := context.Background()

	obs.Debug(ctx, "debug message")
	obs.Info(ctx, "info message", observability.String("k", "v"))
	obs.Warn(ctx, "warn message")
	obs.Error(ctx, "error message", observability.Error(errors.New("bad")))

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("debug should be filtered at INFO level")
	}
	for _, want := range []string{"info message", `"k":"v"`, "warn message", "error message", `"error":"bad"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestObserver_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	obs := New(WithLogger(logger))

	if obs.Logger() != logger {
		t.Fatal("WithLogger should be used as-is")
	}
	obs.Info(context.Background(), "through text handler")
	if !strings.Contains(buf.String(), "msg=\"through text handler\"") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
