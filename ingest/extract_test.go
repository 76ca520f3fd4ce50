package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMarkdown(t *testing.T) {
	html := `<html><body>
		<nav>site navigation</nav>
		<article>
			<h1>Scaling Postgres</h1>
			<p>First paragraph.</p>
			<h2>Sharding</h2>
			<p>Shard by tenant.</p>
			<ul><li>point one</li><li>point two</li></ul>
			<blockquote>a quote</blockquote>
			<hr/>
			<p>footer text</p>
		</article>
	</body></html>`

	got, err := ExtractMarkdown(strings.NewReader(html))
	require.NoError(t, err)

	assert.Contains(t, got, "# Scaling Postgres")
	assert.Contains(t, got, "## Sharding")
	assert.Contains(t, got, "First paragraph.")
	assert.Contains(t, got, "* point one")
	assert.Contains(t, got, "> a quote")
	assert.Contains(t, got, "* * *")
	assert.NotContains(t, got, "site navigation", "content outside the article body is dropped")
}

func TestExtractMarkdownStripsEmbeddedMarkup(t *testing.T) {
	html := `<article><p>before <script>alert("x")</script> after</p></article>`

	got, err := ExtractMarkdown(strings.NewReader(html))
	require.NoError(t, err)
	assert.NotContains(t, got, "<script>")
	assert.NotContains(t, got, "alert")
	assert.Contains(t, got, "before")
}

func TestExtractMarkdownFallsBackToWholeDocument(t *testing.T) {
	html := `<html><body><p>just a paragraph</p></body></html>`

	got, err := ExtractMarkdown(strings.NewReader(html))
	require.NoError(t, err)
	assert.Contains(t, got, "just a paragraph")
}
