package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTMLRendersLinksAndEmphasis(t *testing.T) {
	got := ToHTML("See [Scaling Postgres](https://example.com/pg) for *details*.")

	assert.Contains(t, got, `href="https://example.com/pg"`)
	assert.Contains(t, got, "Scaling Postgres")
	assert.Contains(t, got, "<em>details</em>")
}

func TestToHTMLSanitizesScripts(t *testing.T) {
	got := ToHTML("hello <script>alert('x')</script> world")

	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "hello")
}

func TestToHTMLPlainParagraph(t *testing.T) {
	got := ToHTML("just text")
	assert.Contains(t, got, "<p>just text</p>")
}
