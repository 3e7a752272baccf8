package structured

import (
	"time"

	"github.com/leofalp/costlens/core/parse"
	"github.com/leofalp/costlens/providers/observability"
)

const (
	// DefaultMaxAttempts is the retry budget used when none is configured.
	DefaultMaxAttempts = 3

	// StandingInstruction is appended to every prompt.
	StandingInstruction = "IMPORTANT: Respond with ONLY valid JSON. No explanations, no markdown, no code blocks. Just the raw JSON."

	// DefaultEscalation is applied after each extraction or shape failure.
	DefaultEscalation = "CRITICAL INSTRUCTION: You MUST respond with ONLY valid JSON format. Start immediately with { or [ character. No other text allowed."
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxAttempts sets the retry budget. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n >= 1 {
			o.maxAttempts = n
		}
	}
}

// WithEscalations replaces the escalation clause list. After the k-th
// failure clause min(k, len(clauses)) is applied; clauses accumulate.
// An empty list disables escalation.
func WithEscalations(clauses ...string) Option {
	return func(o *Orchestrator) {
		o.escalations = append([]string(nil), clauses...)
	}
}

// WithExtractor replaces the default JSON extractor.
func WithExtractor(e *parse.Extractor) Option {
	return func(o *Orchestrator) {
		if e != nil {
			o.extractor = e
		}
	}
}

// WithBackoff waits d between attempts.
func WithBackoff(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.backoff = d
		}
	}
}

// WithRecorder sends every finished run to r.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// WithObserver sets the observability provider.
func WithObserver(p observability.Provider) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.observer = p
		}
	}
}
