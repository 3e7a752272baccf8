package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // Conversation messages, oldest first
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional sampling parameters
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`
}

// GenerationConfig carries the sampling controls forwarded to the backend.
// Zero values mean "use the backend default".
type GenerationConfig struct {
	MaxTokens     int     `json:"max_tokens,omitempty"`     // Upper bound on generated tokens (num_predict for Ollama)
	Temperature   float32 `json:"temperature,omitempty"`    // Sampling temperature. Lower => more deterministic.
	TopP          float32 `json:"top_p,omitempty"`          // Nucleus sampling [0..1]
	TopK          int     `json:"top_k,omitempty"`          // Ollama only: keep the K most likely tokens
	RepeatPenalty float32 `json:"repeat_penalty,omitempty"` // Ollama only: penalty for repeated tokens
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)

// NewUserRequest builds a single-turn request carrying prompt as the only
// user message.
func NewUserRequest(model, prompt string, config *GenerationConfig) ChatRequest {
	return ChatRequest{
		Model:            model,
		Messages:         []Message{{Role: RoleUser, Content: prompt}},
		GenerationConfig: config,
	}
}

// LastUserContent returns the content of the most recent user message, or
// the empty string when the request has none.
func (r ChatRequest) LastUserContent() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}
