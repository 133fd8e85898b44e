package docscout

import (
	"context"
	"time"
)

// BundleStatus reports whether a bundle met the completeness gate.
type BundleStatus string

// Bundle statuses. Downstream consumers must refuse to proceed on an
// incomplete bundle unless explicitly overridden.
const (
	BundleComplete   BundleStatus = "complete"
	BundleIncomplete BundleStatus = "incomplete"
)

// ResearchBundle is the product of one pipeline run. Each run owns its
// bundle; there is no shared mutable state between runs besides the content
// cache. The bundle is immutable after it has been written.
type ResearchBundle struct {
	RunID       string         `json:"runId"`
	Domain      string         `json:"domain"`
	Pattern     AppPattern     `json:"pattern"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Targets     []FetchTarget  `json:"targets"`
	Results     []FetchResult  `json:"results"`
	Patterns    []CodePattern  `json:"patterns"`
	Gotchas     []Gotcha       `json:"gotchas"`
	Coverage    CoverageReport `json:"coverage"`
	Status      BundleStatus   `json:"status"`
}

// Validate returns an error if the bundle violates internal invariants:
// every pattern and gotcha must carry a source URL corresponding to an ok
// fetch result in the same bundle.
func (b *ResearchBundle) Validate() error {
	if b.RunID == "" {
		return Errorf(EINVALID, "bundle run ID required")
	}

	ok := make(map[string]bool, len(b.Results))
	for _, r := range b.Results {
		if r.Status == FetchOK {
			ok[r.Target.URL] = true
		}
	}
	for _, p := range b.Patterns {
		if !ok[p.SourceURL] {
			return Errorf(EINVALID, "pattern references %q which has no ok fetch result", p.SourceURL)
		}
	}
	for _, g := range b.Gotchas {
		if !ok[g.SourceURL] {
			return Errorf(EINVALID, "gotcha references %q which has no ok fetch result", g.SourceURL)
		}
	}
	return nil
}

// BundleWriter persists a bundle as a deterministic artifact tree.
type BundleWriter interface {
	// WriteBundle serializes the bundle under dir. Writing the same bundle
	// twice produces byte-identical output except the run-id/timestamp
	// header fields.
	WriteBundle(ctx context.Context, dir string, bundle *ResearchBundle) error
}
