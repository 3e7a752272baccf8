package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/leofalp/costlens/internal/utils"
	"github.com/leofalp/costlens/providers/ai"
)

const (
	// DefaultBaseURL is where a local Ollama server listens.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is used when a request names no model.
	DefaultModel = "mistral:7b-instruct-q4_0"

	generateEndpoint = "/api/generate"
	tagsEndpoint     = "/api/tags"
)

// ErrModelNotFound is returned by Ping when the server is up but the
// configured model has not been pulled.
var ErrModelNotFound = errors.New("ollama: model not installed")

// Provider talks to an Ollama server.
type Provider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

var (
	_ ai.Provider = (*Provider)(nil)
	_ ai.Pinger   = (*Provider)(nil)
)

// New returns a Provider for DefaultBaseURL and DefaultModel.
func New() *Provider {
	return &Provider{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		client:  &http.Client{},
	}
}

// Name implements ai.Provider.
func (p *Provider) Name() string { return "ollama" }

// WithAPIKey sets a bearer token, for servers behind an authenticating proxy.
func (p *Provider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the server URL. An empty value keeps the current one.
func (p *Provider) WithBaseURL(baseURL string) ai.Provider {
	if baseURL != "" {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
	return p
}

// WithHttpClient sets the HTTP client used for requests.
func (p *Provider) WithHttpClient(httpClient *http.Client) ai.Provider {
	if httpClient != nil {
		p.client = httpClient
	}
	return p
}

// WithModel sets the model used by Ping and by requests without a model.
func (p *Provider) WithModel(model string) *Provider {
	if model != "" {
		p.model = model
	}
	return p
}

// SendMessage sends the last user message as the prompt. Earlier turns are
// not forwarded; /api/generate is single-turn.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	body := requestFromGeneric(request, p.model)
	if body.Prompt == "" {
		return nil, fmt.Errorf("ollama: request has no user message")
	}

	_, resp, err := utils.DoPostSync[generateResponse](ctx, p.client, p.baseURL+generateEndpoint, p.apiKey, body)
	if err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}
	if strings.TrimSpace(resp.Response) == "" {
		return nil, ai.ErrEmptyResponse
	}
	return responseToGeneric(resp), nil
}

// Ping checks that the server answers and that the configured model is
// installed. Tags without an explicit version match ":latest".
func (p *Provider) Ping(ctx context.Context) error {
	_, tags, err := utils.DoGetSync[tagsResponse](ctx, p.client, p.baseURL+tagsEndpoint, p.apiKey)
	if err != nil {
		return fmt.Errorf("ollama not reachable at %s: %w", p.baseURL, err)
	}
	want := normalizeTag(p.model)
	for _, m := range tags.Models {
		if normalizeTag(m.Name) == want || normalizeTag(m.Model) == want {
			return nil
		}
	}
	return fmt.Errorf("%w: %s (run: ollama pull %s)", ErrModelNotFound, p.model, p.model)
}

func normalizeTag(name string) string {
	if name == "" || strings.Contains(name, ":") {
		return name
	}
	return name + ":latest"
}

func requestFromGeneric(request ai.ChatRequest, defaultModel string) generateRequest {
	model := request.Model
	if model == "" {
		model = defaultModel
	}
	out := generateRequest{
		Model:  model,
		Prompt: request.LastUserContent(),
		System: request.SystemPrompt,
		Stream: false,
	}
	if cfg := request.GenerationConfig; cfg != nil {
		out.Options = &options{
			Temperature:   cfg.Temperature,
			NumPredict:    cfg.MaxTokens,
			TopK:          cfg.TopK,
			TopP:          cfg.TopP,
			RepeatPenalty: cfg.RepeatPenalty,
		}
	}
	return out
}

func responseToGeneric(resp *generateResponse) *ai.ChatResponse {
	out := &ai.ChatResponse{
		Id:           resp.CreatedAt,
		Model:        resp.Model,
		Content:      resp.Response,
		FinishReason: resp.DoneReason,
	}
	if resp.PromptEvalCount > 0 || resp.EvalCount > 0 {
		out.Usage = &ai.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		}
	}
	return out
}
