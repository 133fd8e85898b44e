package resolve_test

import (
	"strings"
	"testing"

	"docscout"
	"docscout/resolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	r := resolve.NewResolver()

	t.Run("known pattern resolves all categories", func(t *testing.T) {
		t.Parallel()

		targets := r.Resolve("recipe-sharing", docscout.PatternSocialPlatform)

		require.NotEmpty(t, targets)

		categories := make(map[docscout.Category]bool)
		for _, target := range targets {
			categories[target.Category] = true
			assert.Equal(t, "recipe-sharing:social_platform", target.Origin)
		}
		assert.True(t, categories[docscout.CategoryCoreFramework])
		assert.True(t, categories[docscout.CategoryIntegration])
		assert.True(t, categories[docscout.CategoryPatternSpecific])
	})

	t.Run("unknown pattern degrades to critical core set", func(t *testing.T) {
		t.Parallel()

		targets := r.Resolve("contact-manager", docscout.PatternUnknown)

		require.NotEmpty(t, targets)
		for _, target := range targets {
			assert.Equal(t, docscout.CategoryCoreFramework, target.Category)
			assert.Equal(t, docscout.PriorityCritical, target.Priority)
		}
	})

	t.Run("simple_crud excludes other patterns' targets", func(t *testing.T) {
		t.Parallel()

		targets := r.Resolve("contact-manager", docscout.PatternSimpleCRUD)

		for _, target := range targets {
			assert.NotContains(t, target.URL, "subscribe-data")
			assert.NotContains(t, target.URL, "stripe")
		}
	})

	t.Run("targets are deduplicated by URL", func(t *testing.T) {
		t.Parallel()

		for _, pattern := range []docscout.AppPattern{
			docscout.PatternSocialPlatform,
			docscout.PatternECommerce,
			docscout.PatternContentManagement,
			docscout.PatternDashboardAnalytics,
			docscout.PatternSimpleCRUD,
			docscout.PatternUnknown,
		} {
			targets := r.Resolve("any", pattern)
			require.NotEmpty(t, targets, "pattern %s", pattern)

			seen := make(map[string]bool)
			for _, target := range targets {
				assert.False(t, seen[target.URL], "duplicate URL %s for pattern %s", target.URL, pattern)
				seen[target.URL] = true
			}
		}
	})
}

func TestResolver_Supplement(t *testing.T) {
	t.Parallel()

	r := resolve.NewResolver()

	t.Run("returns only unseen targets for missing categories", func(t *testing.T) {
		t.Parallel()

		supplemental := r.Supplement(
			[]docscout.Category{docscout.CategoryCoreFramework},
			func(url string) bool { return strings.Contains(url, "set-up-data") },
		)

		require.NotEmpty(t, supplemental)
		for _, target := range supplemental {
			assert.Equal(t, docscout.CategoryCoreFramework, target.Category)
			assert.NotContains(t, target.URL, "set-up-data")
			assert.Equal(t, "supplemental", target.Origin)
		}
	})

	t.Run("exhausted table yields nothing", func(t *testing.T) {
		t.Parallel()

		supplemental := r.Supplement(
			[]docscout.Category{docscout.CategoryIntegration},
			func(string) bool { return true },
		)

		assert.Empty(t, supplemental)
	})

	t.Run("no missing categories yields nothing", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, r.Supplement(nil, func(string) bool { return false }))
	})
}
