package client

import (
	"context"

	"github.com/leofalp/costlens/providers/ai"
)

// SendFunc sends a chat request to the provider and returns the completed
// response. It is the unit threaded through the middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware wraps the next SendFunc in the chain. The first middleware
// passed to the client is the outermost wrapper.
type Middleware func(next SendFunc) SendFunc

// buildChain applies middlewares in reverse so that middlewares[0] runs first.
func buildChain(provider ai.Provider, middlewares []Middleware) SendFunc {
	var chain SendFunc = provider.SendMessage
	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i](chain)
	}
	return chain
}
