package client

import (
	"context"

	"github.com/leofalp/costlens/internal/utils"
	"github.com/leofalp/costlens/providers/ai"
	"github.com/leofalp/costlens/providers/observability"
)

// NewObservabilityMiddleware wraps every provider call in a span, counts
// requests by status and records call latency in seconds. The span and
// observer are placed in the context so providers can add HTTP events.
func NewObservabilityMiddleware(observer observability.Provider, providerName, defaultModel string) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			model := request.Model
			if model == "" {
				model = defaultModel
			}
			attrs := []observability.Attribute{
				observability.String(observability.AttrLLMProvider, providerName),
				observability.String(observability.AttrLLMModel, model),
			}

			ctx, span := observer.StartSpan(ctx, observability.SpanClientGenerate, attrs...)
			defer span.End()
			ctx = observability.ContextWithSpan(ctx, span)
			ctx = observability.ContextWithObserver(ctx, observer)

			observer.Debug(ctx, "llm request",
				append(attrs, observability.Int(observability.AttrPromptChars, len(request.LastUserContent())))...)

			timer := utils.NewTimer()
			response, err := next(ctx, request)
			elapsed := timer.Elapsed()
			observer.Histogram(observability.MetricClientRequestDuration).Record(ctx, elapsed.Seconds(), attrs...)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, "llm request failed")
				observer.Counter(observability.MetricClientRequestCount).Add(ctx, 1,
					append(attrs, observability.String(observability.AttrStatus, "error"))...)
				observer.Warn(ctx, "llm request failed",
					append(attrs, observability.Duration(observability.AttrDuration, elapsed), observability.Error(err))...)
				return nil, err
			}

			span.SetStatus(observability.StatusOK, "")
			resultAttrs := append(attrs,
				observability.Duration(observability.AttrDuration, elapsed),
				observability.Int(observability.AttrResponseChars, len(response.Content)),
			)
			if response.FinishReason != "" {
				resultAttrs = append(resultAttrs, observability.String(observability.AttrLLMFinishReason, response.FinishReason))
			}
			if response.Usage != nil {
				resultAttrs = append(resultAttrs, observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens))
			}
			span.SetAttributes(resultAttrs...)
			observer.Counter(observability.MetricClientRequestCount).Add(ctx, 1,
				append(attrs, observability.String(observability.AttrStatus, "ok"))...)
			observer.Debug(ctx, "llm request completed", resultAttrs...)
			return response, nil
		}
	}
}
