package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leofalp/costlens/providers/ai"
	"github.com/leofalp/costlens/providers/observability"
)

// ErrNoProvider is returned by New when no provider is given.
var ErrNoProvider = errors.New("client: provider is required")

// ErrPingUnsupported is returned by Ping when the provider cannot be probed
// without generating text and the probe generation failed.
var ErrPingUnsupported = errors.New("client: provider does not support ping")

// Client sends single-turn prompts to a text-generation backend.
type Client struct {
	provider    ai.Provider
	model       string
	config      *ai.GenerationConfig
	middlewares []Middleware
	observer    observability.Provider
	pingTimeout time.Duration
	send        SendFunc
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the model name sent with every request.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithGenerationConfig sets the sampling parameters sent with every request.
func WithGenerationConfig(config ai.GenerationConfig) Option {
	return func(c *Client) {
		cfg := config
		c.config = &cfg
	}
}

// WithMiddleware appends middlewares to the chain, outermost first.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, middlewares...)
	}
}

// WithObserver enables tracing, metrics and logs for every call. The
// observability middleware becomes the outermost wrapper.
func WithObserver(observer observability.Provider) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// WithPingTimeout bounds each Ping probe sent to an ai.Pinger provider.
// Probes that fall back to a generation request go through the middleware
// chain and are bounded by its timeout middleware instead. A non-positive
// value leaves probes bounded only by the caller's context.
func WithPingTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.pingTimeout = timeout
	}
}

// New builds a Client around provider.
func New(provider ai.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}
	c := &Client{provider: provider}
	for _, opt := range opts {
		opt(c)
	}

	middlewares := c.middlewares
	if c.observer != nil {
		middlewares = append([]Middleware{NewObservabilityMiddleware(c.observer, provider.Name(), c.model)}, middlewares...)
	}
	c.send = buildChain(provider, middlewares)
	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// ProviderName returns the backend name.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Send passes a full request through the middleware chain. Requests without
// a model or generation config inherit the client's.
func (c *Client) Send(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if request.Model == "" {
		request.Model = c.model
	}
	if request.GenerationConfig == nil {
		request.GenerationConfig = c.config
	}
	return c.send(ctx, request)
}

// Generate sends prompt as a single user message and returns the generated
// text. A blank reply is reported as ai.ErrEmptyResponse.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := c.Send(ctx, ai.NewUserRequest(c.model, prompt, c.config))
	if err != nil {
		return "", err
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ai.ErrEmptyResponse
	}
	return response.Content, nil
}

// Ping checks that the backend is reachable. Providers implementing ai.Pinger
// are probed directly; others receive a one-word prompt.
func (c *Client) Ping(ctx context.Context) error {
	if pinger, ok := c.provider.(ai.Pinger); ok {
		if c.pingTimeout <= 0 {
			return pinger.Ping(ctx)
		}
		pingCtx, cancel := context.WithTimeout(ctx, c.pingTimeout)
		defer cancel()
		err := pinger.Ping(pingCtx)
		if err != nil && ctx.Err() == nil && errors.Is(pingCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("ping timed out after %s: %w", c.pingTimeout, err)
		}
		return err
	}
	if _, err := c.Generate(ctx, "Test"); err != nil {
		return fmt.Errorf("%w: %w", ErrPingUnsupported, err)
	}
	return nil
}
