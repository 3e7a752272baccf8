package structured

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leofalp/costlens/core/parse"
)

type reply struct {
	text string
	err  error
}

// mockGenerator returns scripted replies and records every prompt.
type mockGenerator struct {
	mu      sync.Mutex
	replies []reply
	prompts []string
	// onCall runs before the reply is returned.
	onCall func(n int)
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	n := len(m.prompts)
	if m.onCall != nil {
		m.onCall(n)
	}
	if n > len(m.replies) {
		return "", errors.New("unexpected call")
	}
	r := m.replies[n-1]
	return r.text, r.err
}

func (m *mockGenerator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

type mockRecorder struct {
	runs []Run
	err  error
}

func (m *mockRecorder) RecordRun(_ context.Context, run Run) error {
	m.runs = append(m.runs, run)
	return m.err
}

func TestRun_FirstAttemptSucceeds(t *testing.T) {
	gen := &mockGenerator{replies: []reply{{text: "```json\n{\"status\":\"ok\"}\n```"}}}
	o := New(gen)

	res, err := o.Run(context.Background(), "give me status", parse.ShapeObject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := res.Value.(map[string]any)
	if !ok || obj["status"] != "ok" {
		t.Errorf("unexpected value %#v", res.Value)
	}
	if len(res.Attempts) != 1 || res.Attempts[0].Outcome != OutcomeSucceeded {
		t.Errorf("unexpected attempts %+v", res.Attempts)
	}
	if want := "give me status\n\n" + StandingInstruction; gen.prompts[0] != want {
		t.Errorf("prompt = %q, want %q", gen.prompts[0], want)
	}
}

// TestRun_NoBracketsExhaustsBudget sends a reply without JSON on every call:
// the run retries twice more with escalated prompts, then fails.
func TestRun_NoBracketsExhaustsBudget(t *testing.T) {
	gen := &mockGenerator{replies: []reply{
		{text: "I cannot help with that."},
		{text: "I cannot help with that."},
		{text: "I cannot help with that."},
		{text: `{"never":"reached"}`},
	}}
	o := New(gen)

	res, err := o.Run(context.Background(), "base", parse.ShapeObject)
	if !errors.Is(err, ErrAttemptsExhausted) || !errors.Is(err, ErrNoJSON) {
		t.Fatalf("err = %v, want ErrAttemptsExhausted and ErrNoJSON", err)
	}
	if gen.calls() != 3 {
		t.Fatalf("generator called %d times, want 3", gen.calls())
	}
	if res == nil || res.Value != nil || len(res.Attempts) != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	for i, a := range res.Attempts {
		if a.Escalations != i {
			t.Errorf("attempt %d escalations = %d, want %d", i+1, a.Escalations, i)
		}
		if got := strings.Count(gen.prompts[i], DefaultEscalation); got != i {
			t.Errorf("prompt %d carries %d escalation clauses, want %d", i+1, got, i)
		}
		if !strings.HasSuffix(gen.prompts[i], StandingInstruction) {
			t.Errorf("prompt %d missing standing instruction", i+1)
		}
	}
}

// TestRun_TransportFailureDoesNotEscalate checks that generator errors and
// blank replies retry the unmodified prompt.
func TestRun_TransportFailureDoesNotEscalate(t *testing.T) {
	gen := &mockGenerator{replies: []reply{
		{err: errors.New("connection refused")},
		{text: "   "},
		{text: `[{"month":"2024-01"}]`},
	}}
	o := New(gen)

	res, err := o.Run(context.Background(), "records", parse.ShapeArray)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.prompts[0] != gen.prompts[1] || gen.prompts[1] != gen.prompts[2] {
		t.Error("transport failures must not change the prompt")
	}
	if res.Attempts[0].Outcome != OutcomeTransportError || res.Attempts[1].Outcome != OutcomeTransportError {
		t.Errorf("unexpected outcomes %+v", res.Attempts)
	}
	if _, ok := res.Value.([]any); !ok {
		t.Errorf("value = %#v, want array", res.Value)
	}
}

func TestRun_ShapeMismatchEscalates(t *testing.T) {
	gen := &mockGenerator{replies: []reply{
		{text: `{"records":[]}`},
		{text: `[{"a":1}]`},
	}}
	o := New(gen)

	res, err := o.Run(context.Background(), "records", parse.ShapeArray)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempts[0].Outcome != OutcomeShapeMismatch {
		t.Errorf("first outcome = %s, want shape_mismatch", res.Attempts[0].Outcome)
	}
	if !strings.Contains(gen.prompts[1], DefaultEscalation) {
		t.Error("second prompt should carry the escalation clause")
	}
}

func TestRun_AllFailuresReportLastClass(t *testing.T) {
	tests := []struct {
		name    string
		replies []reply
		want    error
	}{
		{"transport", []reply{{err: errors.New("a")}, {err: errors.New("b")}, {err: errors.New("c")}}, ErrTransport},
		{"shape", []reply{{text: "x"}, {text: "y"}, {text: `{"a":1}`}}, ErrShapeMismatch},
		{"empty json", []reply{{text: "[]"}, {text: "{}"}, {text: "[]"}}, ErrNoJSON},
		{"scalar", []reply{{text: "1"}, {text: "2"}, {text: `"s"`}}, ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{replies: tt.replies}
			_, err := New(gen).Run(context.Background(), "p", parse.ShapeArray)
			if !errors.Is(err, ErrAttemptsExhausted) || !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if gen.calls() != 3 {
				t.Errorf("calls = %d, want 3", gen.calls())
			}
		})
	}
}

// TestRun_EscalationList applies clause min(k, N) after the k-th failure.
func TestRun_EscalationList(t *testing.T) {
	gen := &mockGenerator{replies: []reply{{text: "no"}, {text: "no"}, {text: "no"}, {text: `{"ok":true}`}}}
	o := New(gen, WithMaxAttempts(4), WithEscalations("FIRST", "SECOND"))

	if _, err := o.Run(context.Background(), "p", parse.ShapeObject); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		BuildPrompt("p", nil),
		BuildPrompt("p", []string{"FIRST"}),
		BuildPrompt("p", []string{"FIRST", "SECOND"}),
		BuildPrompt("p", []string{"FIRST", "SECOND", "SECOND"}),
	}
	for i := range want {
		if gen.prompts[i] != want[i] {
			t.Errorf("prompt %d = %q, want %q", i+1, gen.prompts[i], want[i])
		}
	}
}

func TestRun_NoEscalations(t *testing.T) {
	gen := &mockGenerator{replies: []reply{{text: "no"}, {text: `{"ok":true}`}}}
	o := New(gen, WithEscalations())

	if _, err := o.Run(context.Background(), "p", parse.ShapeObject); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.prompts[0] != gen.prompts[1] {
		t.Error("prompt should not change without escalation clauses")
	}
}

// TestRun_BudgetNeverExceeded checks the generator call count for several
// budgets.
func TestRun_BudgetNeverExceeded(t *testing.T) {
	for _, budget := range []int{1, 2, 5} {
		replies := make([]reply, budget+2)
		for i := range replies {
			replies[i] = reply{text: "nothing"}
		}
		gen := &mockGenerator{replies: replies}
		_, err := New(gen, WithMaxAttempts(budget)).Run(context.Background(), "p", parse.ShapeObject)
		if err == nil {
			t.Fatalf("budget %d: expected failure", budget)
		}
		if gen.calls() != budget {
			t.Errorf("budget %d: %d calls", budget, gen.calls())
		}
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &mockGenerator{
		replies: []reply{{text: "no"}, {text: "no"}, {text: "no"}},
		onCall: func(n int) {
			if n == 1 {
				cancel()
			}
		},
	}

	res, err := New(gen).Run(ctx, "p", parse.ShapeObject)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrAttemptsExhausted) {
		t.Error("cancellation must not be reported as exhaustion")
	}
	if gen.calls() != 1 || len(res.Attempts) != 1 {
		t.Errorf("calls = %d, attempts = %d, want 1", gen.calls(), len(res.Attempts))
	}
}

func TestRun_BackoffRespectsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	gen := &mockGenerator{replies: []reply{{text: "no"}, {text: `{"a":1}`}}}

	_, err := New(gen, WithBackoff(time.Hour)).Run(ctx, "p", parse.ShapeObject)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if gen.calls() != 1 {
		t.Errorf("calls = %d, want 1", gen.calls())
	}
}

func TestRun_Recorder(t *testing.T) {
	rec := &mockRecorder{err: errors.New("disk full")}
	gen := &mockGenerator{replies: []reply{{text: "no"}, {text: `{"a":1}`}}}
	ctx := ContextWithLabel(context.Background(), "profile")

	if _, err := New(gen, WithRecorder(rec)).Run(ctx, "p", parse.ShapeObject); err != nil {
		t.Fatalf("recorder errors must not fail the run: %v", err)
	}
	if len(rec.runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(rec.runs))
	}
	run := rec.runs[0]
	if run.Label != "profile" || !run.Succeeded || len(run.Attempts) != 2 || run.Shape != parse.ShapeObject {
		t.Errorf("unexpected run %+v", run)
	}
	if run.FinishedAt.Before(run.StartedAt) {
		t.Error("FinishedAt before StartedAt")
	}
}

func TestDecode(t *testing.T) {
	type status struct {
		Status string `json:"status"`
	}
	got, err := Decode[status](&Result{Value: map[string]any{"status": "ok"}})
	if err != nil || got.Status != "ok" {
		t.Errorf("Decode = %+v, %v", got, err)
	}
	if _, err := Decode[status](&Result{}); !errors.Is(err, ErrNoJSON) {
		t.Errorf("err = %v, want ErrNoJSON", err)
	}
}

func TestWithMaxAttemptsIgnoresInvalid(t *testing.T) {
	if got := New(nil, WithMaxAttempts(0)).MaxAttempts(); got != DefaultMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", got, DefaultMaxAttempts)
	}
}
