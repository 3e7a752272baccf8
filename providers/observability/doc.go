// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging throughout costlens.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. Callers propagate an
// active [Provider] and [Span] through a [context.Context] using
// [ContextWithObserver] and [ContextWithSpan].
//
// semconv.go holds the attribute keys, span names and metric names shared by
// the client, the extraction orchestrator and the pipeline stages.
package observability
