package pipeline_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"docscout"
	"docscout/mock"
	"docscout/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullCoreDoc yields three patterns with example descriptions and one
// gotcha, which fully covers the core-framework requirements.
const fullCoreDoc = `For example, define your data model:

~~~ts
const schema = a.schema({
  Todo: a.model({
    content: a.string(),
  }),
});
~~~

Example usage of the auth resource:

~~~ts
export const auth = defineAuth({
  loginWith: { email: true },
});
~~~

Example of storage access rules:

~~~ts
export const storage = defineStorage({
  access: (allow) => allow.authenticated.to(["read"]),
});
~~~

Warning: policies must be attached to the user, not the group.

Group policies are silently ignored by the runtime.`

// fullIntegrationDoc yields one pattern with an example description.
const fullIntegrationDoc = `Example of invoking a function from the data client:

~~~ts
const handler = defineFunction({
  entry: "./handler.ts",
});
~~~`

// fullPatternDoc yields one pattern and one gotcha.
const fullPatternDoc = `Subscribe to changes:

~~~ts
const sub = client.models.Todo.observeQuery().subscribe({
  next: (data) => setTodos([...data.items]),
});
~~~

Important: unsubscribe on unmount to avoid connection leaks.`

// passthrough wires mocks so that the fetched body flows unchanged through
// extraction and conversion into the miners.
func passthrough(r *pipeline.Runner) {
	r.Extractor = &mock.ContentExtractor{
		ExtractFn: func(html string) (*docscout.ExtractResult, error) {
			return &docscout.ExtractResult{Title: "page", ContentHTML: html}, nil
		},
	}
	r.Converter = &mock.Converter{
		ConvertFn: func(html string) (string, error) {
			return html, nil
		},
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("complete run produces a passing bundle", func(t *testing.T) {
		t.Parallel()

		docs := map[string]string{
			"https://docs.example.com/data/":      fullCoreDoc,
			"https://docs.example.com/functions/": fullIntegrationDoc,
			"https://docs.example.com/realtime/":  fullPatternDoc,
		}

		r := &pipeline.Runner{
			Resolver: &mock.TargetResolver{
				ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/data/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
						{URL: "https://docs.example.com/functions/", Category: docscout.CategoryIntegration, Priority: docscout.PriorityImportant},
						{URL: "https://docs.example.com/realtime/", Category: docscout.CategoryPatternSpecific, Priority: docscout.PriorityImportant},
					}
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return docs[url], nil
				},
			},
		}
		passthrough(r)

		bundle, err := r.Run(context.Background(), "docs.example.com", docscout.PatternSocialPlatform)

		require.NoError(t, err)
		assert.Equal(t, docscout.BundleComplete, bundle.Status)
		assert.True(t, bundle.Coverage.Passed)
		assert.NotEmpty(t, bundle.RunID)
		assert.Len(t, bundle.Results, 3)
		for _, res := range bundle.Results {
			assert.Equal(t, docscout.FetchOK, res.Status)
			assert.Equal(t, 1, res.Attempts)
		}
		assert.NotEmpty(t, bundle.Patterns)
		assert.NotEmpty(t, bundle.Gotchas)
		require.NoError(t, bundle.Validate())
	})

	t.Run("fetch failure is recorded, not fatal", func(t *testing.T) {
		t.Parallel()

		r := &pipeline.Runner{
			Resolver: &mock.TargetResolver{
				ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/gone/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
						{URL: "https://docs.example.com/data/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
					}
				},
				SupplementFn: func(missing []docscout.Category, seen func(string) bool) []docscout.FetchTarget {
					return nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					if strings.Contains(url, "gone") {
						return "", docscout.Errorf(docscout.EINVALID, "page not found")
					}
					return fullCoreDoc, nil
				},
			},
		}
		passthrough(r)

		bundle, err := r.Run(context.Background(), "docs.example.com", docscout.PatternSimpleCRUD)

		require.NoError(t, err)
		require.Len(t, bundle.Results, 2)
		assert.Equal(t, docscout.FetchError, bundle.Results[0].Status)
		assert.Equal(t, "page not found", bundle.Results[0].ErrorDetail)
		assert.Equal(t, 1, bundle.Results[0].Attempts)
		assert.Equal(t, docscout.FetchOK, bundle.Results[1].Status)
		require.NoError(t, bundle.Validate())
	})

	t.Run("timeout after retries yields timeout status", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		r := &pipeline.Runner{
			Resolver: &mock.TargetResolver{
				ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/slow/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
					}
				},
				SupplementFn: func(missing []docscout.Category, seen func(string) bool) []docscout.FetchTarget {
					return nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					calls.Add(1)
					return "", docscout.Errorf(docscout.ETIMEOUT, "request timed out")
				},
			},
			RetryDelays: []time.Duration{time.Millisecond, time.Millisecond},
		}
		passthrough(r)

		bundle, err := r.Run(context.Background(), "docs.example.com", docscout.PatternSimpleCRUD)

		require.NoError(t, err)
		require.Len(t, bundle.Results, 1)
		assert.Equal(t, docscout.FetchTimeout, bundle.Results[0].Status)
		assert.Equal(t, 3, bundle.Results[0].Attempts)
		assert.EqualValues(t, 3, calls.Load())
		assert.Equal(t, docscout.BundleIncomplete, bundle.Status)
	})

	t.Run("supplemental passes are bounded", func(t *testing.T) {
		t.Parallel()

		var supplementCalls atomic.Int64
		r := &pipeline.Runner{
			Resolver: &mock.TargetResolver{
				ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/empty/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
					}
				},
				SupplementFn: func(missing []docscout.Category, seen func(string) bool) []docscout.FetchTarget {
					n := supplementCalls.Add(1)
					return []docscout.FetchTarget{
						{
							URL:      "https://docs.example.com/extra-" + string(rune('a'+n)) + "/",
							Category: docscout.CategoryCoreFramework,
							Priority: docscout.PrioritySupplementary,
						},
					}
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "Nothing useful here.", nil
				},
			},
		}
		passthrough(r)

		bundle, err := r.Run(context.Background(), "docs.example.com", docscout.PatternSimpleCRUD)

		require.NoError(t, err)
		assert.EqualValues(t, 2, supplementCalls.Load())
		assert.Equal(t, docscout.BundleIncomplete, bundle.Status)
		assert.Len(t, bundle.Targets, 3)
	})

	t.Run("supplemental pass can complete coverage", func(t *testing.T) {
		t.Parallel()

		var supplementCalls atomic.Int64
		r := &pipeline.Runner{
			Resolver: &mock.TargetResolver{
				ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/empty/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
					}
				},
				SupplementFn: func(missing []docscout.Category, seen func(string) bool) []docscout.FetchTarget {
					supplementCalls.Add(1)
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/full/", Category: docscout.CategoryCoreFramework, Priority: docscout.PrioritySupplementary},
					}
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					if strings.Contains(url, "full") {
						return fullCoreDoc, nil
					}
					return "Nothing useful here.", nil
				},
			},
		}
		passthrough(r)

		bundle, err := r.Run(context.Background(), "docs.example.com", docscout.PatternSimpleCRUD)

		require.NoError(t, err)
		assert.EqualValues(t, 1, supplementCalls.Load())
		assert.Equal(t, docscout.BundleComplete, bundle.Status)
		assert.True(t, bundle.Coverage.Passed)
	})

	t.Run("cache hit short-circuits the network", func(t *testing.T) {
		t.Parallel()

		var fetchCalls atomic.Int64
		r := &pipeline.Runner{
			Resolver: &mock.TargetResolver{
				ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/data/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
					}
				},
				SupplementFn: func(missing []docscout.Category, seen func(string) bool) []docscout.FetchTarget {
					return nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					fetchCalls.Add(1)
					return "", docscout.Errorf(docscout.EUNAVAILABLE, "should not be called")
				},
			},
			Cache: &mock.ContentCache{
				GetFn: func(ctx context.Context, url string) (*docscout.CachedContent, error) {
					return &docscout.CachedContent{URL: url, Content: fullCoreDoc}, nil
				},
				PutFn: func(ctx context.Context, entry *docscout.CachedContent) error {
					return nil
				},
			},
		}
		passthrough(r)

		bundle, err := r.Run(context.Background(), "docs.example.com", docscout.PatternSimpleCRUD)

		require.NoError(t, err)
		assert.EqualValues(t, 0, fetchCalls.Load())
		require.Len(t, bundle.Results, 1)
		assert.Equal(t, docscout.FetchOK, bundle.Results[0].Status)
		assert.Equal(t, 0, bundle.Results[0].Attempts)
	})

	t.Run("cache hit keeps the cache entry's fetch time", func(t *testing.T) {
		t.Parallel()

		cacheWrite := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
		r := &pipeline.Runner{
			Resolver: &mock.TargetResolver{
				ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/data/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
					}
				},
				SupplementFn: func(missing []docscout.Category, seen func(string) bool) []docscout.FetchTarget {
					return nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "", docscout.Errorf(docscout.EUNAVAILABLE, "should not be called")
				},
			},
			Cache: &mock.ContentCache{
				GetFn: func(ctx context.Context, url string) (*docscout.CachedContent, error) {
					return &docscout.CachedContent{URL: url, Content: fullCoreDoc, FetchedAt: cacheWrite}, nil
				},
				PutFn: func(ctx context.Context, entry *docscout.CachedContent) error {
					return nil
				},
			},
		}
		passthrough(r)

		bundle, err := r.Run(context.Background(), "docs.example.com", docscout.PatternSimpleCRUD)

		require.NoError(t, err)
		require.Len(t, bundle.Results, 1)
		assert.Equal(t, cacheWrite, bundle.Results[0].FetchedAt)
	})

	t.Run("host limiter gates every network fetch", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var hosts []string
		var releases atomic.Int64
		r := &pipeline.Runner{
			Resolver: &mock.TargetResolver{
				ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/data/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
						{URL: "https://docs.example.com/functions/", Category: docscout.CategoryIntegration, Priority: docscout.PriorityImportant},
					}
				},
				SupplementFn: func(missing []docscout.Category, seen func(string) bool) []docscout.FetchTarget {
					return nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return fullCoreDoc, nil
				},
			},
			Limiter: &mock.HostLimiter{
				AcquireFn: func(ctx context.Context, host string) (func(), error) {
					mu.Lock()
					hosts = append(hosts, host)
					mu.Unlock()
					return func() { releases.Add(1) }, nil
				},
			},
		}
		passthrough(r)

		_, err := r.Run(context.Background(), "docs.example.com", docscout.PatternSimpleCRUD)

		require.NoError(t, err)
		require.Len(t, hosts, 2)
		for _, h := range hosts {
			assert.Equal(t, "docs.example.com", h)
		}
		assert.EqualValues(t, 2, releases.Load())
	})

	t.Run("duplicate fragments collapse across pages", func(t *testing.T) {
		t.Parallel()

		r := &pipeline.Runner{
			Resolver: &mock.TargetResolver{
				ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/a/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
						{URL: "https://docs.example.com/b/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
					}
				},
				SupplementFn: func(missing []docscout.Category, seen func(string) bool) []docscout.FetchTarget {
					return nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return fullIntegrationDoc, nil
				},
			},
		}
		passthrough(r)

		bundle, err := r.Run(context.Background(), "docs.example.com", docscout.PatternSimpleCRUD)

		require.NoError(t, err)
		assert.Len(t, bundle.Patterns, 1)
	})

	t.Run("cancellation skips supplemental passes", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var supplementCalls atomic.Int64
		r := &pipeline.Runner{
			Resolver: &mock.TargetResolver{
				ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
					return []docscout.FetchTarget{
						{URL: "https://docs.example.com/data/", Category: docscout.CategoryCoreFramework, Priority: docscout.PriorityCritical},
					}
				},
				SupplementFn: func(missing []docscout.Category, seen func(string) bool) []docscout.FetchTarget {
					supplementCalls.Add(1)
					return nil
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					if err := ctx.Err(); err != nil {
						return "", docscout.Errorf(docscout.EUNAVAILABLE, "connection aborted")
					}
					return fullCoreDoc, nil
				},
			},
			RetryDelays: []time.Duration{time.Millisecond},
		}
		passthrough(r)

		bundle, err := r.Run(ctx, "docs.example.com", docscout.PatternSimpleCRUD)

		require.NoError(t, err)
		assert.EqualValues(t, 0, supplementCalls.Load())
		assert.Equal(t, docscout.BundleIncomplete, bundle.Status)
	})

	t.Run("empty domain is invalid", func(t *testing.T) {
		t.Parallel()

		r := &pipeline.Runner{}

		_, err := r.Run(context.Background(), "  ", docscout.PatternSimpleCRUD)

		require.Error(t, err)
		assert.Equal(t, docscout.EINVALID, docscout.ErrorCode(err))
	})
}
