// Package pipeline orchestrates documentation research runs. It coordinates
// target resolution, fetching, extraction, knowledge mining, coverage
// scoring, and bounded supplemental passes for under-covered areas.
package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"docscout"
	"docscout/bloom"
	dsgoquery "docscout/goquery"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Seen-URL set configuration.
const (
	// seenExpectedURLs sizes the Bloom filter for cross-pass deduplication.
	seenExpectedURLs = 10000
	// seenFalsePositiveRate is the acceptable false positive rate. A false
	// positive skips one candidate URL, never corrupts results.
	seenFalsePositiveRate = 0.01
)

// maxDiscoveredPerCategory caps how many sitemap-discovered URLs a single
// supplemental pass may add per under-covered category.
const maxDiscoveredPerCategory = 5

// Runner orchestrates a documentation research run.
type Runner struct {
	Resolver  docscout.TargetResolver
	Fetcher   docscout.Fetcher
	Extractor docscout.ContentExtractor
	Converter docscout.Converter

	// Cache short-circuits fetches for fresh entries. Optional.
	Cache docscout.ContentCache

	// Sitemaps mints extra supplemental targets when the resolver's
	// supplemental table is exhausted. Optional.
	Sitemaps docscout.SitemapService

	// Limiter bounds per-host request pressure. Optional.
	Limiter docscout.HostLimiter

	Concurrency           int             // worker pool size, default 8
	RetryDelays           []time.Duration // backoff schedule, default 500ms/1s/2s
	MaxSupplementalPasses int             // default 2
	RunTimeout            time.Duration   // overall deadline, 0 means none
	Thresholds            docscout.CoverageThresholds
	Logger                *slog.Logger
}

// pageResult holds the outcome of processing a single target.
type pageResult struct {
	result   docscout.FetchResult
	patterns []docscout.CodePattern
	gotchas  []docscout.Gotcha
}

// Run executes a research run for a documentation domain and application
// pattern. A fetch failure never aborts the run; it is recorded in the
// bundle and reflected in coverage. Cancellation retains everything
// completed so far and yields an incomplete bundle.
func (r *Runner) Run(ctx context.Context, domain string, pattern docscout.AppPattern) (*docscout.ResearchBundle, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, docscout.Errorf(docscout.EINVALID, "domain required")
	}

	if r.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.RunTimeout)
		defer cancel()
	}

	th := r.Thresholds
	if th.Complete == 0 {
		th = docscout.DefaultCoverageThresholds()
	}

	bundle := &docscout.ResearchBundle{
		RunID:       uuid.NewString(),
		Domain:      domain,
		Pattern:     pattern,
		GeneratedAt: time.Now().UTC(),
	}

	seen := bloom.NewFilter(seenExpectedURLs, seenFalsePositiveRate)

	bundle.Targets = r.Resolver.Resolve(domain, pattern)
	for _, t := range bundle.Targets {
		seen.Add(t.URL)
	}

	results, patterns, gotchas := r.processTargets(ctx, bundle.Targets)
	bundle.Results = results
	patterns = dedupPatterns(patterns)
	gotchas = dedupGotchas(gotchas)

	coverage := docscout.ScoreCoverage(bundle.Targets, patterns, gotchas, th)

	passes := r.MaxSupplementalPasses
	if passes <= 0 {
		passes = 2
	}
	for pass := 1; pass <= passes && !coverage.Passed && ctx.Err() == nil; pass++ {
		extra := r.Resolver.Supplement(coverage.Missing, seen.Test)
		if len(extra) == 0 && r.Sitemaps != nil {
			extra = r.discoverTargets(ctx, domain, coverage.Missing, seen)
		}
		if len(extra) == 0 {
			r.logger().Info("supplemental targets exhausted",
				"run_id", bundle.RunID,
				"pass", pass,
				"missing", coverage.Missing,
			)
			break
		}
		for _, t := range extra {
			seen.Add(t.URL)
		}
		r.logger().Info("supplemental pass",
			"run_id", bundle.RunID,
			"pass", pass,
			"targets", len(extra),
			"missing", coverage.Missing,
		)

		bundle.Targets = append(bundle.Targets, extra...)
		extraResults, extraPatterns, extraGotchas := r.processTargets(ctx, extra)
		bundle.Results = append(bundle.Results, extraResults...)
		patterns = dedupPatterns(append(patterns, extraPatterns...))
		gotchas = dedupGotchas(append(gotchas, extraGotchas...))

		coverage = docscout.ScoreCoverage(bundle.Targets, patterns, gotchas, th)
	}

	bundle.Patterns = patterns
	bundle.Gotchas = gotchas
	bundle.Coverage = coverage
	bundle.Status = docscout.BundleIncomplete
	if coverage.Passed {
		bundle.Status = docscout.BundleComplete
	}

	if err := bundle.Validate(); err != nil {
		return nil, err
	}

	r.logger().Info("run finished",
		"run_id", bundle.RunID,
		"domain", domain,
		"pattern", pattern,
		"status", bundle.Status,
		"score", coverage.OverallScore,
		"targets", len(bundle.Targets),
		"patterns", len(patterns),
		"gotchas", len(gotchas),
	)

	return bundle, nil
}

// processTargets fetches and mines all targets through a bounded worker
// pool. Results keep the order of the input targets.
func (r *Runner) processTargets(ctx context.Context, targets []docscout.FetchTarget) ([]docscout.FetchResult, []docscout.CodePattern, []docscout.Gotcha) {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	pages := make([]pageResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, target := range targets {
		g.Go(func() error {
			pages[i] = r.processTarget(gctx, target)
			return nil
		})
	}
	_ = g.Wait()

	results := make([]docscout.FetchResult, len(pages))
	var patterns []docscout.CodePattern
	var gotchas []docscout.Gotcha
	for i, page := range pages {
		results[i] = page.result
		patterns = append(patterns, page.patterns...)
		gotchas = append(gotchas, page.gotchas...)
	}
	return results, patterns, gotchas
}

// processTarget fetches one target and mines its content for patterns and
// gotchas. Extraction or conversion failures leave the fetch result intact
// but contribute no fragments.
func (r *Runner) processTarget(ctx context.Context, target docscout.FetchTarget) pageResult {
	result := docscout.FetchResult{Target: target}

	html, fetchedAt, attempts, err := r.fetchContent(ctx, target.URL)
	result.FetchedAt = fetchedAt
	result.Attempts = attempts
	if err != nil {
		result.Status = docscout.FetchError
		if docscout.ErrorCode(err) == docscout.ETIMEOUT {
			result.Status = docscout.FetchTimeout
		}
		result.ErrorDetail = docscout.ErrorMessage(err)
		r.logger().Warn("fetch failed",
			"url", target.URL,
			"attempts", attempts,
			"err", err,
		)
		return pageResult{result: result}
	}
	result.Status = docscout.FetchOK
	result.Content = html

	page := pageResult{result: result}

	extracted, err := r.Extractor.Extract(html)
	if err != nil {
		r.logger().Warn("extraction skipped", "url", target.URL, "err", err)
		return page
	}
	markdown, err := r.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		r.logger().Warn("conversion skipped", "url", target.URL, "err", err)
		return page
	}

	page.patterns = docscout.MinePatterns(markdown, target.URL, target.Category)
	page.gotchas = docscout.MineGotchas(markdown, target.URL, target.Category)
	if admonitions, err := dsgoquery.ExtractAdmonitions(html, target.URL, target.Category); err == nil {
		page.gotchas = append(page.gotchas, admonitions...)
	}

	return page
}

// fetchContent returns page content and the time it was fetched, preferring
// a fresh cache entry over the network. Cache hits report the cache write
// time, not the run's wall clock. Network fetches go through the host
// limiter and the retry schedule; successful fetches are written back to
// the cache.
func (r *Runner) fetchContent(ctx context.Context, rawURL string) (string, time.Time, int, error) {
	if r.Cache != nil {
		if entry, err := r.Cache.Get(ctx, rawURL); err == nil {
			return entry.Content, entry.FetchedAt, 0, nil
		}
	}

	if r.Limiter != nil {
		release, err := r.Limiter.Acquire(ctx, hostOf(rawURL))
		if err != nil {
			return "", time.Now().UTC(), 0, err
		}
		defer release()
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetchedAt := time.Now().UTC()
	html, attempts, err := FetchWithRetryDelays(ctx, rawURL, r.Fetcher.Fetch, delays)
	if err != nil {
		return "", fetchedAt, attempts, err
	}

	if r.Cache != nil {
		entry := &docscout.CachedContent{URL: rawURL, Content: html, FetchedAt: fetchedAt}
		if err := r.Cache.Put(ctx, entry); err != nil {
			r.logger().Warn("cache write failed", "url", rawURL, "err", err)
		}
	}
	return html, fetchedAt, attempts, nil
}

// categoryPathRes maps a category to the URL path segments that suggest a
// sitemap entry covers it.
var categoryPathRes = map[docscout.Category]*regexp.Regexp{
	docscout.CategoryCoreFramework:   regexp.MustCompile(`/(data|auth|storage)/`),
	docscout.CategoryIntegration:     regexp.MustCompile(`/(functions|rest-api|api|graphql)/`),
	docscout.CategoryPatternSpecific: regexp.MustCompile(`/(realtime|subscribe|search|analytics|files|connect)/`),
}

// discoverTargets mints supplemental targets from the site's sitemap for
// the under-covered categories, skipping URLs already seen this run.
func (r *Runner) discoverTargets(ctx context.Context, domain string, missing []docscout.Category, seen *bloom.Filter) []docscout.FetchTarget {
	urls, err := r.Sitemaps.DiscoverURLs(ctx, "https://"+domain, nil)
	if err != nil {
		r.logger().Warn("sitemap discovery failed", "domain", domain, "err", err)
		return nil
	}

	var targets []docscout.FetchTarget
	for _, c := range missing {
		re := categoryPathRes[c]
		if re == nil {
			continue
		}
		added := 0
		for _, u := range urls {
			if added >= maxDiscoveredPerCategory {
				break
			}
			if seen.Test(u) || !re.MatchString(u) {
				continue
			}
			seen.Add(u)
			targets = append(targets, docscout.FetchTarget{
				URL:      u,
				Category: c,
				Priority: docscout.PrioritySupplementary,
				Origin:   "sitemap",
			})
			added++
		}
	}
	return targets
}

// dedupPatterns removes duplicate code patterns, keeping the first
// occurrence. Identity is the code text within its category, so the same
// snippet repeated across pages in one documentation area collapses to one.
func dedupPatterns(patterns []docscout.CodePattern) []docscout.CodePattern {
	seen := make(map[uint64]bool, len(patterns))
	var out []docscout.CodePattern
	for _, p := range patterns {
		key := xxhash.Sum64String(p.Code + "\x00" + string(p.Category))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// dedupGotchas removes duplicate gotchas by warning text within a category,
// keeping the first occurrence.
func dedupGotchas(gotchas []docscout.Gotcha) []docscout.Gotcha {
	seen := make(map[uint64]bool, len(gotchas))
	var out []docscout.Gotcha
	for _, g := range gotchas {
		key := xxhash.Sum64String(g.Warning + "\x00" + string(g.Category))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out
}

// hostOf extracts the host from a URL for rate limiting. Unparseable URLs
// fall back to the raw string so they still share one limiter bucket.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
