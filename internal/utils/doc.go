// Package utils provides shared low-level helpers used by the costlens
// providers and pipeline: JSON HTTP round trips against model backends,
// string helpers for log-safe previews, a pointer helper, and a simple
// elapsed-time timer.
//
// Key entry points: [DoPostSync] and [DoGetSync] for synchronous JSON
// round-trips, [TruncateString] for bounded log output, and [Timer] for
// measuring latency.
package utils
