package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/leofalp/costlens/core/parse"
	"github.com/leofalp/costlens/core/report"
	"github.com/leofalp/costlens/internal/utils"
	"github.com/leofalp/costlens/patterns/pipeline"
	"github.com/leofalp/costlens/providers/history/sqlitehistory"
	"github.com/leofalp/costlens/providers/storage/filestore"
)

// endMarker terminates a description typed on stdin.
const endMarker = "END"

const checkPrompt = `Generate a simple JSON object with these fields:
- status: "ok"
- message: "connection working"

Respond with ONLY the JSON object, nothing else.`

// withRuntime builds the runtime for a command and closes it afterwards.
func withRuntime(c *cli.Context, withHistory bool, fn func(rt *runtime) error) error {
	rt, err := newRuntime(c.Context, configFrom(c), c.App.ErrWriter, withHistory)
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}
	defer rt.Close()
	return fn(rt)
}

// =============================================================================
// DESCRIBE
// =============================================================================

func describeCommand() *cli.Command {
	return &cli.Command{
		Name:  "describe",
		Usage: "Save the project description (from --file, or stdin terminated by an END line)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read the description from a file"},
		},
		Action: func(c *cli.Context) error {
			var text string
			if path := c.String("file"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("reading %s: %v", path, err), exitMissing)
				}
				text = string(data)
			} else {
				fmt.Fprintln(c.App.ErrWriter, "Enter your project description below.")
				fmt.Fprintln(c.App.ErrWriter, "Include: project goals, budget, tech stack, requirements")
				fmt.Fprintf(c.App.ErrWriter, "Type '%s' on a new line when finished.\n\n", endMarker)
				var err error
				if text, err = readDescription(c.App.Reader); err != nil {
					return cli.Exit(err.Error(), exitFailure)
				}
			}

			store := filestore.New(configFrom(c).OutputDir)
			p := pipeline.New(store, nil)
			if err := p.Describe(text); err != nil {
				return exitError(err)
			}
			saved := strings.TrimSpace(text)
			fmt.Fprintf(c.App.Writer, "Description saved (%d characters) to %s\n", len(saved), store.Path(filestore.DescriptionFile))
			fmt.Fprintln(c.App.Writer, utils.TruncateString(saved, 300))
			return nil
		},
	}
}

// readDescription reads lines until a line equal to END (case-insensitive)
// or end of input.
func readDescription(r io.Reader) (string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), endMarker) {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading description: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

// =============================================================================
// STAGES
// =============================================================================

func stageCommand(name, usage string) *cli.Command {
	stage := name
	if name == "analyze" {
		stage = pipeline.StageAnalysis
	}
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(c *cli.Context) error {
			return withRuntime(c, true, func(rt *runtime) error {
				start := time.Now()
				if err := rt.pipeline.RunStage(c.Context, stage); err != nil {
					return exitError(err)
				}
				fmt.Fprintf(c.App.Writer, "%s stage completed in %s\n", stage, since(start))
				return nil
			})
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run profile extraction, billing generation and cost analysis",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "export", Usage: "Also export the text summary"},
		},
		Action: func(c *cli.Context) error {
			return withRuntime(c, true, func(rt *runtime) error {
				start := time.Now()
				if err := rt.pipeline.Run(c.Context); err != nil {
					return exitError(err)
				}
				fmt.Fprintf(c.App.Writer, "All steps completed in %s\n", since(start))
				if c.Bool("export") {
					path, err := rt.pipeline.ExportSummary()
					if err != nil {
						return exitError(err)
					}
					fmt.Fprintf(c.App.Writer, "Text summary exported to %s\n", path)
				}
				return nil
			})
		},
	}
}

// =============================================================================
// VIEW / EXPORT
// =============================================================================

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "Show the cost summary and top recommendations",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "top", Value: report.DefaultTop, Usage: "Number of recommendations to list"},
			&cli.BoolFlag{Name: "plain", Usage: "Disable colors and borders"},
		},
		Action: func(c *cli.Context) error {
			p := pipeline.New(filestore.New(configFrom(c).OutputDir), nil)
			r, err := p.LoadReport()
			if err != nil {
				return exitError(err)
			}
			fmt.Fprint(c.App.Writer, report.RenderView(*r, report.ViewOptions{
				Top:   c.Int("top"),
				Plain: c.Bool("plain"),
			}))
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the report (json, text or both)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "both", Usage: "Export format (json, text, both)"},
		},
		Action: func(c *cli.Context) error {
			format := strings.ToLower(c.String("format"))
			if format != "json" && format != "text" && format != "both" {
				return cli.Exit(fmt.Sprintf("unknown format %q (want json, text or both)", format), exitConfig)
			}

			store := filestore.New(configFrom(c).OutputDir)
			p := pipeline.New(store, nil)
			if _, err := p.LoadReport(); err != nil {
				return exitError(err)
			}
			if format == "text" || format == "both" {
				path, err := p.ExportSummary()
				if err != nil {
					return exitError(err)
				}
				fmt.Fprintf(c.App.Writer, "Text summary exported to %s\n", path)
			}
			if format == "json" || format == "both" {
				fmt.Fprintf(c.App.Writer, "JSON report available at %s\n", store.Path(filestore.ReportFile))
			}
			return nil
		},
	}
}

// =============================================================================
// CHECK / HISTORY / WATCH
// =============================================================================

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Verify the model backend is reachable and returns JSON",
		Action: func(c *cli.Context) error {
			return withRuntime(c, false, func(rt *runtime) error {
				w := c.App.Writer
				fmt.Fprintf(w, "1. Testing %s connectivity (%s)...\n", rt.client.ProviderName(), rt.client.Model())
				if err := rt.client.Ping(c.Context); err != nil {
					return cli.Exit(fmt.Sprintf("backend not responding: %v", err), exitFailure)
				}
				fmt.Fprintln(w, "   backend is running")

				fmt.Fprintln(w, "2. Testing JSON generation...")
				result, err := rt.orchestrator.Run(c.Context, checkPrompt, parse.ShapeObject)
				if err != nil {
					return cli.Exit(fmt.Sprintf("JSON generation failed: %v", err), exitFailure)
				}
				fmt.Fprintf(w, "   got %s after %d attempt(s)\n", utils.JSONToString(result.Value), len(result.Attempts))
				return nil
			})
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent structured-generation runs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Number of runs to show"},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			if cfg.HistoryPath == "" {
				return cli.Exit("history is disabled (COSTLENS_HISTORY_PATH is empty)", exitConfig)
			}
			store, err := sqlitehistory.Open(c.Context, cfg.HistoryPath)
			if err != nil {
				return cli.Exit(err.Error(), exitFailure)
			}
			defer store.Close()

			runs, err := store.Recent(c.Context, c.Int("limit"))
			if err != nil {
				return cli.Exit(err.Error(), exitFailure)
			}
			if len(runs) == 0 {
				fmt.Fprintln(c.App.Writer, "No runs recorded yet.")
				return nil
			}
			for _, run := range runs {
				fmt.Fprintln(c.App.Writer, formatRun(run))
			}
			return nil
		},
	}
}

func formatRun(run sqlitehistory.RunSummary) string {
	status := "ok"
	if !run.Succeeded {
		status = "failed"
	}
	line := fmt.Sprintf("%-14s %-9s %-6s %-6s attempts=%d  took=%s",
		humanize.Time(run.StartedAt), orDash(run.Label), run.Shape, status, run.Attempts,
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	if run.LastError != "" {
		line += "  last_error=" + utils.TruncateString(run.LastError, 80)
	}
	return line
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Rerun the pipeline whenever the project description changes",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "debounce", Value: filestore.DefaultDebounce, Usage: "Quiet period before rerunning"},
		},
		Action: func(c *cli.Context) error {
			return withRuntime(c, true, func(rt *runtime) error {
				store := rt.pipeline.Store()
				changes, err := store.Watch(c.Context, filestore.DescriptionFile, c.Duration("debounce"))
				if err != nil {
					return cli.Exit(err.Error(), exitFailure)
				}
				fmt.Fprintf(c.App.Writer, "Watching %s (Ctrl+C to stop)\n", store.Path(filestore.DescriptionFile))
				return watchLoop(c.Context, changes, func(ctx context.Context) {
					start := time.Now()
					if err := rt.pipeline.Run(ctx); err != nil {
						if !errors.Is(err, context.Canceled) {
							fmt.Fprintf(c.App.ErrWriter, "pipeline failed: %v\n", err)
						}
						return
					}
					fmt.Fprintf(c.App.Writer, "Report updated in %s\n", since(start))
				})
			})
		},
	}
}

// watchLoop calls run for every change until ctx ends or changes closes.
func watchLoop(ctx context.Context, changes <-chan struct{}, run func(context.Context)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			run(ctx)
		}
	}
}
