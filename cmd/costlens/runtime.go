package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/leofalp/costlens/core/client"
	"github.com/leofalp/costlens/core/client/middleware"
	"github.com/leofalp/costlens/core/parse"
	"github.com/leofalp/costlens/core/structured"
	"github.com/leofalp/costlens/internal/config"
	"github.com/leofalp/costlens/patterns/pipeline"
	"github.com/leofalp/costlens/providers/ai"
	"github.com/leofalp/costlens/providers/ai/ollama"
	"github.com/leofalp/costlens/providers/ai/openai"
	"github.com/leofalp/costlens/providers/history/sqlitehistory"
	"github.com/leofalp/costlens/providers/observability/slogobs"
	"github.com/leofalp/costlens/providers/storage/filestore"
)

// runtime holds the wired components for one command invocation.
type runtime struct {
	cfg          *config.Config
	observer     *slogobs.Observer
	client       *client.Client
	orchestrator *structured.Orchestrator
	pipeline     *pipeline.Pipeline
	history      *sqlitehistory.Store
}

// newRuntime wires config, logging, provider, client, orchestrator and
// pipeline. The history database is opened only when withHistory is set and
// a path is configured.
func newRuntime(ctx context.Context, cfg *config.Config, logOutput io.Writer, withHistory bool) (*runtime, error) {
	level, err := slogobs.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	observer := slogobs.New(
		slogobs.WithFormat(slogobs.ParseFormat(cfg.LogFormat)),
		slogobs.WithLevel(level),
		slogobs.WithOutput(logOutput),
	)

	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	callLogLevel := middleware.LogLevelStandard
	if level <= slog.LevelDebug {
		callLogLevel = middleware.LogLevelVerbose
	}
	c, err := client.New(provider,
		client.WithModel(cfg.Model),
		client.WithGenerationConfig(ai.GenerationConfig{
			MaxTokens:     cfg.MaxTokens,
			Temperature:   float32(cfg.Temperature),
			TopP:          float32(cfg.TopP),
			TopK:          cfg.TopK,
			RepeatPenalty: float32(cfg.RepeatPenalty),
		}),
		client.WithMiddleware(
			middleware.NewLoggingMiddleware(observer.Logger(), callLogLevel),
			middleware.NewTimeoutMiddleware(cfg.Timeout),
		),
		client.WithObserver(observer),
		client.WithPingTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}

	var extractorOpts []parse.ExtractorOption
	if cfg.BalancedScan {
		extractorOpts = append(extractorOpts, parse.WithBalancedScan())
	}
	if cfg.JSONRepair {
		extractorOpts = append(extractorOpts, parse.WithRepair())
	}
	orchOpts := []structured.Option{
		structured.WithMaxAttempts(cfg.MaxAttempts),
		structured.WithBackoff(cfg.RetryBackoff),
		structured.WithExtractor(parse.NewExtractor(extractorOpts...)),
		structured.WithObserver(observer),
	}

	rt := &runtime{cfg: cfg, observer: observer, client: c}
	if withHistory && cfg.HistoryPath != "" {
		store, err := sqlitehistory.Open(ctx, cfg.HistoryPath)
		if err != nil {
			return nil, err
		}
		rt.history = store
		orchOpts = append(orchOpts, structured.WithRecorder(store))
	}

	rt.orchestrator = structured.New(c, orchOpts...)
	rt.pipeline = pipeline.New(filestore.New(cfg.OutputDir), rt.orchestrator,
		pipeline.WithObserver(observer),
		pipeline.WithMinBillingRecords(cfg.MinBillingRecords),
	)
	return rt, nil
}

func (rt *runtime) Close() error {
	if rt.history != nil {
		return rt.history.Close()
	}
	return nil
}

func newProvider(cfg *config.Config) (ai.Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderOllama:
		p := ollama.New().WithModel(cfg.Model)
		if cfg.BaseURL != "" {
			p.WithBaseURL(cfg.BaseURL)
		}
		return p, nil
	case config.ProviderOpenAI:
		p := openai.New()
		if cfg.APIKey != "" {
			p.WithAPIKey(cfg.APIKey)
		}
		if cfg.BaseURL != "" {
			p.WithBaseURL(cfg.BaseURL)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}
