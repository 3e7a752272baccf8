package ai

import (
	"context"
	"errors"
	"net/http"
)

// ErrEmptyResponse is returned by providers when the backend answered
// successfully but produced no text.
var ErrEmptyResponse = errors.New("ai: provider returned an empty response")

// Provider is the core interface that every text-generation backend must
// satisfy. It covers a single request/response round trip: endpoint
// configuration, message dispatch, and response interpretation.
type Provider interface {
	// SendMessage sends a chat request to the provider and returns the
	// completed response. Returns an error if the provider call fails,
	// the context is cancelled, or the response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// Name returns a short identifier for logs and history ("ollama", "openai").
	Name() string

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}

// Pinger is an optional interface for providers that can cheaply verify the
// backend is reachable without generating text.
type Pinger interface {
	Ping(ctx context.Context) error
}
