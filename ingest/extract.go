package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// bodySelectors are tried in order to locate the article body; the first
// match wins, falling back to the whole document.
var bodySelectors = []string{"article", "div.body", "div.post-content", "main"}

// ExtractMarkdown converts an article's HTML into markdown-ish plain text:
// headings become #-prefixed lines, paragraphs and list items become blocks
// separated by blank lines. Scripts, styles, and embedded markup are stripped.
func ExtractMarkdown(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("ingest: parsing html: %w", err)
	}

	root := doc.Selection
	for _, sel := range bodySelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			root = s.First()
			break
		}
	}

	root.Find("script, style, noscript").Remove()

	policy := bluemonday.StrictPolicy()
	var blocks []string
	appendBlock := func(text string) {
		text = strings.TrimSpace(text)
		if text != "" {
			blocks = append(blocks, text)
		}
	}

	root.Find("h1, h2, h3, h4, p, li, blockquote, hr").Each(func(_ int, s *goquery.Selection) {
		text := policy.Sanitize(s.Text())
		switch goquery.NodeName(s) {
		case "h1":
			appendBlock("# " + text)
		case "h2":
			appendBlock("## " + text)
		case "h3":
			appendBlock("### " + text)
		case "h4":
			appendBlock("#### " + text)
		case "li":
			appendBlock("* " + text)
		case "blockquote":
			appendBlock("> " + text)
		case "hr":
			blocks = append(blocks, "* * *")
		default:
			appendBlock(text)
		}
	})

	return strings.Join(blocks, "\n\n"), nil
}
