package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name      string
		attr      Attribute
		wantKey   string
		wantValue interface{}
	}{
		{"string", String(AttrStage, "billing"), AttrStage, "billing"},
		{"int", Int(AttrAttempt, 2), AttrAttempt, 2},
		{"float", Float64("ratio", 0.5), "ratio", 0.5},
		{"bool", Bool("ok", true), "ok", true},
		{"duration", Duration(AttrDuration, time.Second), AttrDuration, time.Second},
		{"error", Error(errors.New("boom")), AttrError, "boom"},
		{"nil error", Error(nil), AttrError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey || tt.attr.Value != tt.wantValue {
				t.Errorf("got %s=%v, want %s=%v", tt.attr.Key, tt.attr.Value, tt.wantKey, tt.wantValue)
			}
		})
	}
}

// TestNop ensures the no-op provider is safe to use everywhere.
func TestNop(t *testing.T) {
	p := Nop()
	ctx, span := p.StartSpan(context.Background(), SpanExtract)
	span.SetAttributes(String("a", "b"))
	span.SetStatus(StatusOK, "")
	span.RecordError(errors.New("x"))
	span.AddEvent("e")
	span.End()
	p.Counter(MetricAttempts).Add(ctx, 1)
	p.Histogram(MetricClientRequestDuration).Record(ctx, 1)
	p.Info(ctx, "msg")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if SpanFromContext(ctx) != nil {
		t.Error("empty context should have no span")
	}
	if ObserverFromContext(ctx) != nil {
		t.Error("empty context should have no observer")
	}

	_, span := Nop().StartSpan(ctx, "s")
	ctx = ContextWithSpan(ctx, span)
	if SpanFromContext(ctx) != span {
		t.Error("span not found in context")
	}

	obs := Nop()
	ctx = ContextWithObserver(ctx, obs)
	if ObserverFromContext(ctx) != obs {
		t.Error("observer not found in context")
	}

	//nolint:staticcheck // nil context is handled explicitly
	if SpanFromContext(nil) != nil {
		t.Error("nil context should return nil span")
	}
}
