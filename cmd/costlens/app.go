package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/leofalp/costlens/internal/config"
	"github.com/leofalp/costlens/patterns/pipeline"
	"github.com/leofalp/costlens/providers/storage/filestore"
)

const configKey = "config"

func newApp() *cli.App {
	return &cli.App{
		Name:    "costlens",
		Usage:   "AI-assisted cloud cost optimization from a project description",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{Name: "provider", Usage: "Model backend (ollama, openai)"},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Model name"},
			&cli.StringFlag{Name: "base-url", Usage: "Backend base URL"},
			&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "Artifact directory"},
			&cli.IntFlag{Name: "max-attempts", Usage: "Attempts per structured generation"},
			&cli.DurationFlag{Name: "timeout", Usage: "Timeout per model call"},
			&cli.BoolFlag{Name: "json-repair", Usage: "Repair malformed JSON in model output"},
			&cli.BoolFlag{Name: "no-history", Usage: "Do not record attempts in the history database"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level (debug, info, warn, error)"},
			&cli.StringFlag{Name: "log-format", Usage: "Log format (compact, json)"},
		},

		Before: loadConfig,

		Commands: []*cli.Command{
			describeCommand(),
			stageCommand(pipeline.StageProfile, "Extract the project profile from the description"),
			stageCommand(pipeline.StageBilling, "Generate synthetic billing records for the profile"),
			stageCommand("analyze", "Analyze costs and generate recommendations"),
			runCommand(),
			viewCommand(),
			exportCommand(),
			checkCommand(),
			historyCommand(),
			watchCommand(),
		},
	}
}

// loadConfig resolves configuration from .env, the environment and global
// flags, in increasing priority. Validation runs on the merged result.
func loadConfig(c *cli.Context) error {
	cfg := config.Load()

	if c.IsSet("provider") {
		cfg.Provider = strings.ToLower(c.String("provider"))
	}
	if c.IsSet("model") {
		cfg.Model = c.String("model")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("output-dir") {
		// The default history database follows the output directory.
		if cfg.HistoryPath == historyPathFor(cfg.OutputDir) {
			cfg.HistoryPath = historyPathFor(c.String("output-dir"))
		}
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("max-attempts") {
		cfg.MaxAttempts = c.Int("max-attempts")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("json-repair") {
		cfg.JSONRepair = c.Bool("json-repair")
	}
	if c.Bool("no-history") {
		cfg.HistoryPath = ""
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	cfg, _ := c.App.Metadata[configKey].(*config.Config)
	return cfg
}

func historyPathFor(outputDir string) string {
	return filestore.New(outputDir).Path("history.db")
}

// Exit codes.
const (
	exitFailure = 1
	exitMissing = 2
	exitConfig  = 3
)

// exitError maps pipeline failures to exit codes with an operator-facing
// message.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, pipeline.ErrMissingArtifact):
		return cli.Exit(fmt.Sprintf("%v\nRun the previous step first (see 'costlens --help').", err), exitMissing)
	default:
		return cli.Exit(err.Error(), exitFailure)
	}
}

func since(t time.Time) string {
	return time.Since(t).Round(100 * time.Millisecond).String()
}
