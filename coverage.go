package docscout

import "sort"

// SignalKind is one kind of knowledge evidence a category can require.
type SignalKind string

// Knowledge signal kinds.
const (
	SignalPattern SignalKind = "has-pattern"
	SignalGotcha  SignalKind = "has-gotcha"
	SignalExample SignalKind = "has-example"
)

// SignalRequirement pairs a signal kind with how many instances a category
// needs for full coverage.
type SignalRequirement struct {
	Kind  SignalKind `json:"kind"`
	Count int        `json:"count"`
}

// categoryRequirements is the table-driven requirement map.
// Core framework coverage expects a pattern and an example per sub-area
// (data, auth, storage), hence the count of 3.
var categoryRequirements = map[Category][]SignalRequirement{
	CategoryCoreFramework: {
		{Kind: SignalPattern, Count: 3},
		{Kind: SignalExample, Count: 3},
		{Kind: SignalGotcha, Count: 1},
	},
	CategoryIntegration: {
		{Kind: SignalPattern, Count: 1},
		{Kind: SignalExample, Count: 1},
	},
	CategoryPatternSpecific: {
		{Kind: SignalPattern, Count: 1},
		{Kind: SignalGotcha, Count: 1},
	},
}

// RequiredSignals returns the signal requirements for a category.
func RequiredSignals(c Category) []SignalRequirement {
	reqs := categoryRequirements[c]
	out := make([]SignalRequirement, len(reqs))
	copy(out, reqs)
	return out
}

// CategoryCoverage scores one category against its required signals.
type CategoryCoverage struct {
	Category Category            `json:"category"`
	Priority Priority            `json:"priority"`
	Required []SignalRequirement `json:"required"`
	Observed map[SignalKind]int  `json:"observed"`
	Score    float64             `json:"score"`
}

// CoverageReport is the machine-readable completeness assessment of a bundle.
type CoverageReport struct {
	Categories   []CategoryCoverage `json:"categories"`
	OverallScore float64            `json:"overallScore"`

	// Missing lists categories still under full coverage; the resolver's
	// supplemental pass targets exactly these.
	Missing []Category `json:"missing,omitempty"`

	// Passed reports whether the bundle meets the completeness gate.
	Passed bool `json:"passed"`
}

// CoverageThresholds configures the completeness gate.
type CoverageThresholds struct {
	// Complete is the minimum weighted overall score, default 0.85.
	Complete float64

	// CriticalFloor is the minimum individual score for any critical
	// category, default 0.6. A badly-missing critical category must not be
	// masked by strong supplementary coverage.
	CriticalFloor float64
}

// DefaultCoverageThresholds returns the default completeness gate.
func DefaultCoverageThresholds() CoverageThresholds {
	return CoverageThresholds{Complete: 0.85, CriticalFloor: 0.6}
}

// ScoreCoverage computes per-category and overall coverage for the evidence
// collected so far. Only categories present in the target set are scored,
// and signals are category-scoped: a pattern-specific gotcha never
// satisfies a core-framework requirement.
//
// Scores are a pure function of accumulated evidence, so they are
// monotonically non-decreasing across supplemental passes within a run.
func ScoreCoverage(targets []FetchTarget, patterns []CodePattern, gotchas []Gotcha, th CoverageThresholds) CoverageReport {
	// A category's priority is the highest tier among its resolved targets.
	priorities := make(map[Category]Priority)
	for _, t := range targets {
		if t.Priority > priorities[t.Category] {
			priorities[t.Category] = t.Priority
		}
	}

	observed := make(map[Category]map[SignalKind]int)
	record := func(c Category, kind SignalKind) {
		if _, ok := priorities[c]; !ok {
			return
		}
		if observed[c] == nil {
			observed[c] = make(map[SignalKind]int)
		}
		observed[c][kind]++
	}
	for _, p := range patterns {
		record(p.Category, SignalPattern)
		if p.Example {
			record(p.Category, SignalExample)
		}
	}
	for _, g := range gotchas {
		record(g.Category, SignalGotcha)
	}

	categories := make([]Category, 0, len(priorities))
	for c := range priorities {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	report := CoverageReport{}
	var weightedSum, weightTotal float64
	criticalOK := true

	for _, c := range categories {
		reqs := RequiredSignals(c)
		obs := observed[c]

		var want, have int
		for _, req := range reqs {
			want += req.Count
			have += min(obs[req.Kind], req.Count)
		}

		score := 1.0
		if want > 0 {
			score = float64(have) / float64(want)
		}

		cov := CategoryCoverage{
			Category: c,
			Priority: priorities[c],
			Required: reqs,
			Observed: obs,
			Score:    score,
		}
		if cov.Observed == nil {
			cov.Observed = map[SignalKind]int{}
		}
		report.Categories = append(report.Categories, cov)

		w := float64(priorities[c].Weight())
		weightedSum += score * w
		weightTotal += w

		if score < 1.0 {
			report.Missing = append(report.Missing, c)
		}
		if priorities[c] == PriorityCritical && score < th.CriticalFloor {
			criticalOK = false
		}
	}

	if weightTotal > 0 {
		report.OverallScore = weightedSum / weightTotal
	}
	report.Passed = report.OverallScore >= th.Complete && criticalOK

	return report
}
