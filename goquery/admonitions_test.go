package goquery_test

import (
	"testing"

	"docscout"
	"docscout/goquery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAdmonitions(t *testing.T) {
	t.Parallel()

	const url = "https://example.com/docs/auth"

	t.Run("extracts dedicated warning admonition", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<div class="admonition warning">
				<p>Policies attach to users. Group attachment is ignored at runtime.</p>
			</div>
		</body></html>`

		gotchas, err := goquery.ExtractAdmonitions(html, url, docscout.CategoryCoreFramework)

		require.NoError(t, err)
		require.Len(t, gotchas, 1)
		assert.Equal(t, "Policies attach to users.", gotchas[0].Warning)
		assert.Equal(t, "Group attachment is ignored at runtime.", gotchas[0].Context)
		assert.Equal(t, url, gotchas[0].SourceURL)
	})

	t.Run("blockquote requires a lexical indicator", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<blockquote>A quote about nothing in particular</blockquote>
			<blockquote>Warning: tokens expire after one hour</blockquote>
		</body></html>`

		gotchas, err := goquery.ExtractAdmonitions(html, url, docscout.CategoryCoreFramework)

		require.NoError(t, err)
		require.Len(t, gotchas, 1)
		assert.Contains(t, gotchas[0].Warning, "tokens expire")
	})

	t.Run("deduplicates identical callouts", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<div class="admonition warning"><p>Avoid long-lived credentials.</p></div>
			<div class="warning"><p>Avoid long-lived credentials.</p></div>
		</body></html>`

		gotchas, err := goquery.ExtractAdmonitions(html, url, docscout.CategoryIntegration)

		require.NoError(t, err)
		assert.Len(t, gotchas, 1)
	})

	t.Run("page without admonitions yields nothing", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Just regular prose.</p></body></html>`

		gotchas, err := goquery.ExtractAdmonitions(html, url, docscout.CategoryCoreFramework)

		require.NoError(t, err)
		assert.Empty(t, gotchas)
	})
}
