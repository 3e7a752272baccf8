// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans and metrics are rendered as debug-level log records, which is enough
// to follow a pipeline run attempt by attempt without an external collector.
// Output format and level come from COSTLENS_LOG_FORMAT and COSTLENS_LOG_LEVEL
// unless overridden with options.
package slogobs
