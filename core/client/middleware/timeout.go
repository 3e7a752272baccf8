package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leofalp/costlens/core/client"
	"github.com/leofalp/costlens/providers/ai"
)

// ErrTimeout is returned when a provider call outlives its deadline. It
// wraps context.DeadlineExceeded.
var ErrTimeout = fmt.Errorf("llm call timed out: %w", context.DeadlineExceeded)

// NewTimeoutMiddleware gives each provider call at most timeout to finish.
// A caller context with a shorter deadline still wins. A non-positive timeout
// disables the middleware.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			callCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			response, err := next(callCtx, request)
			if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
			}
			return response, err
		}
	}
}
