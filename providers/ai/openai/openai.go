package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/costlens/internal/utils"
	"github.com/leofalp/costlens/providers/ai"
)

const (
	// DefaultBaseURL is the public OpenAI API.
	DefaultBaseURL = "https://api.openai.com/v1"

	chatCompletionsEndpoint = "/chat/completions"
	modelsEndpoint          = "/models"
)

// ErrMissingAPIKey is returned when the public API is used without a key.
var ErrMissingAPIKey = errors.New("openai: API key is not set")

// Provider talks to an OpenAI-compatible server.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var (
	_ ai.Provider = (*Provider)(nil)
	_ ai.Pinger   = (*Provider)(nil)
)

// New returns a Provider configured from OPENAI_API_KEY and
// OPENAI_API_BASE_URL, defaulting to the public API.
func New() *Provider {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Provider{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Name implements ai.Provider.
func (p *Provider) Name() string { return "openai" }

// WithAPIKey sets the API key for the provider
func (p *Provider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API. An empty value is ignored.
func (p *Provider) WithBaseURL(baseURL string) ai.Provider {
	if baseURL != "" {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
	return p
}

// WithHttpClient sets a custom HTTP client
func (p *Provider) WithHttpClient(httpClient *http.Client) ai.Provider {
	if httpClient != nil {
		p.client = httpClient
	}
	return p
}

// SendMessage implements the Provider interface. Self-hosted servers often
// need no key, so the key is only required for the public API.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := p.checkKey(); err != nil {
		return nil, err
	}

	_, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, p.baseURL+chatCompletionsEndpoint, p.apiKey, requestFromGeneric(request))
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ai.ErrEmptyResponse
	}
	return responseToGeneric(resp), nil
}

// Ping lists models, which needs no generation and validates the key.
func (p *Provider) Ping(ctx context.Context) error {
	if err := p.checkKey(); err != nil {
		return err
	}
	if _, _, err := utils.DoGetSync[modelsResponse](ctx, p.client, p.baseURL+modelsEndpoint, p.apiKey); err != nil {
		return fmt.Errorf("openai not reachable at %s: %w", p.baseURL, err)
	}
	return nil
}

func (p *Provider) checkKey() error {
	if p.apiKey == "" && p.baseURL == DefaultBaseURL {
		return ErrMissingAPIKey
	}
	return nil
}

func requestFromGeneric(request ai.ChatRequest) chatCompletionRequest {
	out := chatCompletionRequest{Model: request.Model}
	if request.SystemPrompt != "" {
		out.Messages = append(out.Messages, message{Role: string(ai.RoleSystem), Content: request.SystemPrompt})
	}
	for _, m := range request.Messages {
		out.Messages = append(out.Messages, message{Role: string(m.Role), Content: m.Content})
	}
	if cfg := request.GenerationConfig; cfg != nil {
		out.MaxTokens = utils.PositivePtr(cfg.MaxTokens)
		out.Temperature = utils.PositivePtr(cfg.Temperature)
		out.TopP = utils.PositivePtr(cfg.TopP)
	}
	return out
}

func responseToGeneric(resp *chatCompletionResponse) *ai.ChatResponse {
	out := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		Content:      resp.Choices[0].Message.Content,
		FinishReason: resp.Choices[0].FinishReason,
	}
	if resp.Usage != nil {
		out.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return out
}
