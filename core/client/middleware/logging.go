package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/leofalp/costlens/core/client"
	"github.com/leofalp/costlens/internal/utils"
	"github.com/leofalp/costlens/providers/ai"
)

// LogLevel controls how much detail the logging middleware emits per request.
type LogLevel int

const (
	// LogLevelMinimal logs the model, duration and token counts.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds prompt length and finish reason.
	LogLevelStandard

	// LogLevelVerbose adds the prompt and the response, each truncated to
	// 500 characters. Prompts contain project descriptions; keep this for
	// local debugging.
	LogLevelVerbose
)

const truncateLen = 500

// ParseLogLevel maps "minimal", "standard" and "verbose" to a LogLevel.
// Anything else yields LogLevelStandard.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "minimal":
		return LogLevelMinimal
	case "verbose":
		return LogLevelVerbose
	default:
		return LogLevelStandard
	}
}

// NewLoggingMiddleware logs each provider call before and after it runs.
// A nil logger uses slog.Default().
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			logger.DebugContext(ctx, "llm send", requestAttrs(request, level)...)

			start := time.Now()
			response, err := next(ctx, request)
			elapsed := time.Since(start)

			if err != nil {
				logger.WarnContext(ctx, "llm send failed",
					slog.String("model", request.Model),
					slog.Duration("duration", elapsed),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			logger.InfoContext(ctx, "llm send completed", responseAttrs(request, response, elapsed, level)...)
			return response, nil
		}
	}
}

func requestAttrs(request ai.ChatRequest, level LogLevel) []any {
	attrs := []any{slog.String("model", request.Model)}
	prompt := request.LastUserContent()
	if level >= LogLevelStandard {
		attrs = append(attrs, slog.Int("prompt_chars", len(prompt)))
	}
	if level >= LogLevelVerbose {
		attrs = append(attrs, slog.String("prompt", utils.TruncateString(prompt, truncateLen)))
	}
	return attrs
}

func responseAttrs(request ai.ChatRequest, response *ai.ChatResponse, elapsed time.Duration, level LogLevel) []any {
	model := response.Model
	if model == "" {
		model = request.Model
	}
	attrs := []any{
		slog.String("model", model),
		slog.Duration("duration", elapsed),
	}
	if response.Usage != nil {
		attrs = append(attrs,
			slog.Int("prompt_tokens", response.Usage.PromptTokens),
			slog.Int("completion_tokens", response.Usage.CompletionTokens),
			slog.Int("total_tokens", response.Usage.TotalTokens),
		)
	}
	if level >= LogLevelStandard {
		attrs = append(attrs, slog.Int("response_chars", len(response.Content)))
		if response.FinishReason != "" {
			attrs = append(attrs, slog.String("finish_reason", response.FinishReason))
		}
	}
	if level >= LogLevelVerbose && response.Content != "" {
		attrs = append(attrs, slog.String("response", utils.TruncateString(response.Content, truncateLen)))
	}
	return attrs
}
