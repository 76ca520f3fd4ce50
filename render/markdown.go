// Package render converts assistant markdown replies into sanitized HTML
// for web embedding.
package render

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// ToHTML renders reply markdown to HTML and sanitizes the result with a
// UGC policy, so model output can be embedded without script injection.
func ToHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(md))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})
	raw := markdown.Render(doc, renderer)

	return string(bluemonday.UGCPolicy().SanitizeBytes(raw))
}
