package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leofalp/costlens/providers/ai"
	"github.com/leofalp/costlens/providers/ai/ollama"
)

// mockProvider is a minimal ai.Provider returning a scripted response.
type mockProvider struct {
	response *ai.ChatResponse
	err      error
	requests []ai.ChatRequest
}

func (m *mockProvider) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	m.requests = append(m.requests, request)
	return m.response, m.err
}

func (m *mockProvider) Name() string                            { return "mock" }
func (m *mockProvider) WithAPIKey(string) ai.Provider           { return m }
func (m *mockProvider) WithBaseURL(string) ai.Provider          { return m }
func (m *mockProvider) WithHttpClient(*http.Client) ai.Provider { return m }

// pingProvider additionally implements ai.Pinger.
type pingProvider struct {
	mockProvider
	pingErr error
	pinged  int
}

func (p *pingProvider) Ping(context.Context) error {
	p.pinged++
	return p.pingErr
}

func TestNew_RequiresProvider(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoProvider) {
		t.Errorf("err = %v, want ErrNoProvider", err)
	}
}

func TestGenerate(t *testing.T) {
	provider := &mockProvider{response: &ai.ChatResponse{Content: `{"ok":true}`}}
	c, err := New(provider,
		WithModel("mistral:7b-instruct-q4_0"),
		WithGenerationConfig(ai.GenerationConfig{MaxTokens: 3000, Temperature: 0.3}),
	)
	if err != nil {
		t.Fatal(err)
	}

	text, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"ok":true}` {
		t.Errorf("text = %q", text)
	}

	req := provider.requests[0]
	if req.Model != "mistral:7b-instruct-q4_0" {
		t.Errorf("model = %q", req.Model)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != ai.RoleUser || req.Messages[0].Content != "hello" {
		t.Errorf("messages = %+v", req.Messages)
	}
	if req.GenerationConfig == nil || req.GenerationConfig.MaxTokens != 3000 {
		t.Errorf("generation config = %+v", req.GenerationConfig)
	}
}

func TestGenerate_Errors(t *testing.T) {
	boom := errors.New("connection refused")
	tests := []struct {
		name     string
		provider *mockProvider
		want     error
	}{
		{"provider error", &mockProvider{err: boom}, boom},
		{"blank content", &mockProvider{response: &ai.ChatResponse{Content: "  \n"}}, ai.ErrEmptyResponse},
		{"nil response", &mockProvider{}, ai.ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := New(tt.provider)
			if _, err := c.Generate(context.Background(), "p"); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestMiddlewareOrder verifies that the first middleware is the outermost.
func TestMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next SendFunc) SendFunc {
			return func(ctx context.Context, r ai.ChatRequest) (*ai.ChatResponse, error) {
				order = append(order, name+":in")
				resp, err := next(ctx, r)
				order = append(order, name+":out")
				return resp, err
			}
		}
	}
	c, _ := New(&mockProvider{response: &ai.ChatResponse{Content: "x"}}, WithMiddleware(tag("a"), tag("b")))

	if _, err := c.Generate(context.Background(), "p"); err != nil {
		t.Fatal(err)
	}
	want := []string{"a:in", "b:in", "b:out", "a:out"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestSend_InheritsDefaults(t *testing.T) {
	provider := &mockProvider{response: &ai.ChatResponse{Content: "x"}}
	c, _ := New(provider, WithModel("m1"), WithGenerationConfig(ai.GenerationConfig{TopK: 40}))

	_, _ = c.Send(context.Background(), ai.ChatRequest{Messages: []ai.Message{{Role: ai.RoleUser, Content: "p"}}})
	_, _ = c.Send(context.Background(), ai.ChatRequest{Model: "m2", GenerationConfig: &ai.GenerationConfig{TopK: 1}})

	if provider.requests[0].Model != "m1" || provider.requests[0].GenerationConfig.TopK != 40 {
		t.Errorf("first request did not inherit defaults: %+v", provider.requests[0])
	}
	if provider.requests[1].Model != "m2" || provider.requests[1].GenerationConfig.TopK != 1 {
		t.Errorf("second request overrides lost: %+v", provider.requests[1])
	}
}

func TestPing(t *testing.T) {
	pinger := &pingProvider{}
	c, _ := New(pinger)
	if err := c.Ping(context.Background()); err != nil || pinger.pinged != 1 {
		t.Errorf("Ping via Pinger: err=%v pinged=%d", err, pinger.pinged)
	}
	if len(pinger.requests) != 0 {
		t.Error("Pinger providers should not receive a generation request")
	}

	fallback := &mockProvider{response: &ai.ChatResponse{Content: "hi"}}
	c, _ = New(fallback)
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("fallback ping: %v", err)
	}
	if len(fallback.requests) != 1 || fallback.requests[0].LastUserContent() != "Test" {
		t.Errorf("fallback should send a one-word prompt, got %+v", fallback.requests)
	}

	down := &mockProvider{err: errors.New("dial tcp: refused")}
	c, _ = New(down)
	if err := c.Ping(context.Background()); !errors.Is(err, ErrPingUnsupported) {
		t.Errorf("err = %v, want ErrPingUnsupported", err)
	}
}

func TestPing_HungBackendHonoursPingTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	provider := ollama.New().WithBaseURL(server.URL)
	c, err := New(provider, WithPingTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	err = c.Ping(ctx)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected an error from a backend that never answers")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Ping returned after %s, want about 100ms", elapsed)
	}
	if ctx.Err() != nil {
		t.Error("caller context should still be live")
	}
}

func TestPing_CallerCancellationWins(t *testing.T) {
	blocking := &blockingPinger{}
	c, _ := New(blocking, WithPingTimeout(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// blockingPinger waits for its context to end.
type blockingPinger struct{ mockProvider }

func (b *blockingPinger) Ping(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestAccessors(t *testing.T) {
	c, _ := New(&mockProvider{}, WithModel("m"))
	if c.Model() != "m" || c.ProviderName() != "mock" {
		t.Errorf("Model()=%q ProviderName()=%q", c.Model(), c.ProviderName())
	}
}
