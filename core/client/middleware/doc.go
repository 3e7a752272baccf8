// Package middleware provides client.Middleware implementations for the
// text-generation client.
//
//   - [NewTimeoutMiddleware] bounds every provider call with a deadline and
//     reports expiry as [ErrTimeout].
//   - [NewLoggingMiddleware] writes one slog entry before and after each
//     call, with detail controlled by [LogLevel].
//
// Middlewares compose with client.WithMiddleware; the first one given is
// the outermost:
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewLoggingMiddleware(logger, middleware.LogLevelStandard),
//	        middleware.NewTimeoutMiddleware(180*time.Second),
//	    ),
//	)
//
// There is no retry middleware: retries belong to the extraction
// orchestrator, which counts every provider call against its budget.
package middleware
