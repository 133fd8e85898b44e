// Package fs persists research bundles as a deterministic artifact tree.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docscout"
)

// Ensure Writer implements docscout.BundleWriter at compile time.
var _ docscout.BundleWriter = (*Writer)(nil)

// Writer writes bundles as markdown and JSON files under a directory.
// The layout is one summary.md, one markdown file per category, and a
// machine-readable coverage.json. Output is deterministic: writing the same
// bundle twice produces identical bytes apart from the run header.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBundle serializes the bundle under dir.
func (w *Writer) WriteBundle(ctx context.Context, dir string, bundle *docscout.ResearchBundle) error {
	if err := bundle.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, "summary.md"), []byte(formatSummary(bundle)), 0644); err != nil {
		return err
	}

	for _, c := range bundleCategories(bundle) {
		content := formatCategory(bundle, c)
		name := string(c) + ".md"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}

	coverage, err := json.MarshalIndent(bundle.Coverage, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "coverage.json"), append(coverage, '\n'), 0644)
}

// bundleCategories returns the categories present in the bundle's target
// set, sorted for deterministic output.
func bundleCategories(bundle *docscout.ResearchBundle) []docscout.Category {
	set := make(map[docscout.Category]bool)
	for _, t := range bundle.Targets {
		set[t.Category] = true
	}
	categories := make([]docscout.Category, 0, len(set))
	for c := range set {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}

// formatSummary renders the run overview: status, coverage scores, missing
// areas, and fetch failures.
func formatSummary(bundle *docscout.ResearchBundle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Research Summary: %s\n\n", bundle.Domain)
	fmt.Fprintf(&b, "- Run: %s\n", bundle.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", bundle.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Pattern: %s\n", bundle.Pattern)
	fmt.Fprintf(&b, "- Status: %s\n", bundle.Status)
	fmt.Fprintf(&b, "- Overall coverage: %.2f\n", bundle.Coverage.OverallScore)

	b.WriteString("\n## Coverage\n\n")
	b.WriteString("| Category | Priority | Score |\n")
	b.WriteString("|----------|----------|-------|\n")
	for _, cov := range bundle.Coverage.Categories {
		fmt.Fprintf(&b, "| %s | %s | %.2f |\n", cov.Category, cov.Priority, cov.Score)
	}

	if len(bundle.Coverage.Missing) > 0 {
		b.WriteString("\n## Missing Areas\n\n")
		for _, c := range bundle.Coverage.Missing {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}

	var failures []docscout.FetchResult
	for _, res := range bundle.Results {
		if res.Status != docscout.FetchOK {
			failures = append(failures, res)
		}
	}
	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].Target.URL < failures[j].Target.URL })
		b.WriteString("\n## Fetch Failures\n\n")
		for _, res := range failures {
			fmt.Fprintf(&b, "- %s (%s): %s\n", res.Target.URL, res.Status, res.ErrorDetail)
		}
	}

	return b.String()
}

// formatCategory renders one category's patterns and gotchas with their
// source URLs. Fragments are ordered by source URL, then by their original
// mining order within a page.
func formatCategory(bundle *docscout.ResearchBundle, category docscout.Category) string {
	var patterns []docscout.CodePattern
	for _, p := range bundle.Patterns {
		if p.Category == category {
			patterns = append(patterns, p)
		}
	}
	sort.SliceStable(patterns, func(i, j int) bool { return patterns[i].SourceURL < patterns[j].SourceURL })

	var gotchas []docscout.Gotcha
	for _, g := range bundle.Gotchas {
		if g.Category == category {
			gotchas = append(gotchas, g)
		}
	}
	sort.SliceStable(gotchas, func(i, j int) bool { return gotchas[i].SourceURL < gotchas[j].SourceURL })

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", category)

	if len(patterns) > 0 {
		b.WriteString("\n## Patterns\n")
		for _, p := range patterns {
			b.WriteString("\n")
			if p.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", p.Description)
			}
			fmt.Fprintf(&b, "```\n%s\n```\n\n", p.Code)
			fmt.Fprintf(&b, "Source: %s\n", p.SourceURL)
		}
	}

	if len(gotchas) > 0 {
		b.WriteString("\n## Gotchas\n")
		for _, g := range gotchas {
			b.WriteString("\n")
			fmt.Fprintf(&b, "> %s\n", g.Warning)
			if g.Context != "" {
				fmt.Fprintf(&b, ">\n> %s\n", g.Context)
			}
			fmt.Fprintf(&b, "\nSource: %s\n", g.SourceURL)
		}
	}

	if len(patterns) == 0 && len(gotchas) == 0 {
		b.WriteString("\nNo knowledge fragments were extracted for this area.\n")
	}

	return b.String()
}
