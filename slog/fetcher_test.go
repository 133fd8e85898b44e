package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"docscout"
	"docscout/mock"
	docslog "docscout/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs url, size and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>body</html>", nil
			},
		}

		f := docslog.NewLoggingFetcher(inner, logger)
		content, err := f.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.NotEmpty(t, content)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "bytes=17")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("connection refused")
			},
		}

		f := docslog.NewLoggingFetcher(inner, logger)
		_, err := f.Fetch(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "connection refused")
	})
}

func TestLoggingResolver_Resolve(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.TargetResolver{
		ResolveFn: func(domain string, pattern docscout.AppPattern) []docscout.FetchTarget {
			return []docscout.FetchTarget{
				{URL: "https://docs.amplify.aws/react/build-a-backend/data/set-up-data/"},
			}
		},
	}

	r := docslog.NewLoggingResolver(inner, logger)
	targets := r.Resolve("docs.amplify.aws", docscout.PatternSimpleCRUD)

	assert.Len(t, targets, 1)
	output := buf.String()
	assert.Contains(t, output, "resolve targets")
	assert.Contains(t, output, "pattern=simple_crud")
	assert.Contains(t, output, "count=1")
}
