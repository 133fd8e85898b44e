package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"docscout"
)

// Exit codes.
const (
	exitComplete   = 0 // bundle written, coverage passed
	exitIncomplete = 1 // bundle written, coverage below threshold
	exitFatal      = 2 // no bundle produced
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Resolver  docscout.TargetResolver
	Fetcher   docscout.Fetcher
	Extractor docscout.ContentExtractor
	Converter docscout.Converter
	Cache     docscout.ContentCache
	Sitemaps  docscout.SitemapService
	Writer    docscout.BundleWriter

	// ExitCode is set by commands that distinguish more outcomes than
	// success and failure.
	ExitCode int
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Run RunCmd `cmd:"" help:"Research a documentation domain and write a knowledge bundle"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Domain  string `arg:"" help:"Documentation domain to research (e.g. docs.amplify.aws)"`
	Pattern string `arg:"" optional:"" default:"unknown" help:"Application pattern: social_platform, e_commerce, content_management, dashboard_analytics, simple_crud"`

	Out           string        `short:"o" default:"./research" help:"Output directory for the bundle"`
	Concurrency   int           `short:"c" default:"8" help:"Concurrent fetch limit"`
	PerHost       int64         `default:"2" help:"Concurrent fetch limit per host"`
	RPS           float64       `default:"2" help:"Requests per second per host"`
	Timeout       time.Duration `default:"10s" help:"Per-request fetch timeout"`
	Cache         string        `env:"DOCSCOUT_CACHE" help:"Content cache path (default ~/.docscout/cache.db)"`
	NoCache       bool          `help:"Disable the content cache"`
	CacheTTL      time.Duration `default:"24h" help:"Content cache freshness window"`
	Passes        int           `default:"2" help:"Maximum supplemental passes"`
	Threshold     float64       `default:"0.85" help:"Overall coverage required for a complete bundle"`
	CriticalFloor float64       `default:"0.6" help:"Minimum coverage for any critical category"`
	RunTimeout    time.Duration `default:"5m" help:"Overall run deadline"`
}
