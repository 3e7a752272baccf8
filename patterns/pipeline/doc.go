// Package pipeline chains the three cost-analysis stages.
//
// Each stage reads the artifact written by the previous one, asks the model
// for structured output through a [structured.Orchestrator], validates the
// result with [schema] and writes exactly one artifact:
//
//	project_description.txt -> profile  -> project_profile.json
//	project_profile.json    -> billing  -> mock_billing.json
//	profile + billing       -> analysis -> cost_optimization_report.json
//
// A stage that fails at any step returns an error and writes nothing, so
// artifacts from earlier successful runs stay as they were.
//
// Basic usage:
//
//	p := pipeline.New(filestore.New("outputs"), orchestrator,
//	    pipeline.WithObserver(observer),
//	)
//	if err := p.Describe(description); err != nil { ... }
//	if err := p.Run(ctx); err != nil { ... }
//	path, err := p.ExportSummary()
package pipeline
