// Command docscout researches a documentation domain for an application
// pattern and writes a research bundle: extracted code patterns, gotchas,
// and a coverage assessment.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"docscout"
	"docscout/fs"
	"docscout/htmltomarkdown"
	dochttp "docscout/http"
	"docscout/resolve"
	docslog "docscout/slog"
	"docscout/sqlite"
	"docscout/trafilatura"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	m := NewMain()
	code := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	_ = m.Close()
	os.Exit(code)
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Nil fields are wired with real
	// implementations during Run.
	Resolver  docscout.TargetResolver
	Fetcher   docscout.Fetcher
	Extractor docscout.ContentExtractor
	Converter docscout.Converter
	Cache     docscout.ContentCache
	Sitemaps  docscout.SitemapService
	Writer    docscout.BundleWriter

	// SQLite database backing the content cache.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments and returns the process
// exit code: 0 for a complete bundle, 1 for an incomplete bundle that was
// still written, 2 for a fatal error before a bundle was produced.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Logger:   logger,
		ExitCode: exitFatal,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docscout"),
		kong.Description("Documentation research for application scaffolding."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to create parser: %v\n", err)
		return exitFatal
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return exitFatal
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return exitComplete
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFatal
	}

	m.wire(cli, deps, logger, stderr)

	if err := kongCtx.Run(deps); err != nil {
		return exitFatal
	}
	return deps.ExitCode
}

// wire fills the dependency struct, preferring injected test services over
// real implementations.
func (m *Main) wire(cli *CLI, deps *Dependencies, logger *slog.Logger, stderr io.Writer) {
	deps.Resolver = m.Resolver
	if deps.Resolver == nil {
		deps.Resolver = docslog.NewLoggingResolver(resolve.NewResolver(), logger)
	}

	deps.Fetcher = m.Fetcher
	if deps.Fetcher == nil {
		deps.Fetcher = docslog.NewLoggingFetcher(
			dochttp.NewFetcher(dochttp.WithTimeout(cli.Run.Timeout)),
			logger,
		)
	}

	deps.Extractor = m.Extractor
	if deps.Extractor == nil {
		deps.Extractor = trafilatura.NewExtractor()
	}

	deps.Converter = m.Converter
	if deps.Converter == nil {
		deps.Converter = htmltomarkdown.NewConverter()
	}

	deps.Sitemaps = m.Sitemaps
	if deps.Sitemaps == nil {
		deps.Sitemaps = dochttp.NewSitemapService(nil)
	}

	deps.Writer = m.Writer
	if deps.Writer == nil {
		deps.Writer = fs.NewWriter()
	}

	deps.Cache = m.Cache
	if deps.Cache == nil && !cli.Run.NoCache {
		path := cli.Run.Cache
		if path == "" {
			path = defaultCachePath()
		}
		db := sqlite.NewDB(path)
		if err := db.Open(); err != nil {
			// A broken cache never blocks research; run uncached.
			fmt.Fprintf(stderr, "warning: content cache unavailable at %q: %v\n", path, err)
			return
		}
		m.DB = db
		deps.Cache = sqlite.NewContentCache(db, sqlite.WithTTL(cli.Run.CacheTTL))
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "docscout-cache.db"
	}
	dir := filepath.Join(home, ".docscout")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cache.db")
}
