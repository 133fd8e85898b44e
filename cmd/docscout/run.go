package main

import (
	"fmt"

	"docscout"
	"docscout/pipeline"
)

// Run executes the run command: resolve targets, fetch and mine the
// documentation, score coverage, and write the bundle.
func (c *RunCmd) Run(deps *Dependencies) error {
	deps.ExitCode = exitFatal

	runner := &pipeline.Runner{
		Resolver:              deps.Resolver,
		Fetcher:               deps.Fetcher,
		Extractor:             deps.Extractor,
		Converter:             deps.Converter,
		Cache:                 deps.Cache,
		Sitemaps:              deps.Sitemaps,
		Limiter:               pipeline.NewLimiter(c.RPS, c.PerHost),
		Concurrency:           c.Concurrency,
		MaxSupplementalPasses: c.Passes,
		RunTimeout:            c.RunTimeout,
		Thresholds: docscout.CoverageThresholds{
			Complete:      c.Threshold,
			CriticalFloor: c.CriticalFloor,
		},
		Logger: deps.Logger,
	}

	bundle, err := runner.Run(deps.Ctx, c.Domain, docscout.ParseAppPattern(c.Pattern))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
		return err
	}

	if err := deps.Writer.WriteBundle(deps.Ctx, c.Out, bundle); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docscout.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Bundle written to %s (run %s)\n", c.Out, bundle.RunID)
	fmt.Fprintf(deps.Stdout, "Status: %s, overall coverage %.2f\n", bundle.Status, bundle.Coverage.OverallScore)
	if bundle.Status == docscout.BundleComplete {
		deps.ExitCode = exitComplete
		return nil
	}

	for _, missing := range bundle.Coverage.Missing {
		fmt.Fprintf(deps.Stdout, "Under-covered: %s\n", missing)
	}
	deps.ExitCode = exitIncomplete
	return nil
}
