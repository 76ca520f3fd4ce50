// Package splitter splits article markdown for chunking and summarization.
package splitter

import (
	"strings"
)

// Section is a contiguous span of markdown under one header.
type Section struct {
	// Header is the most specific header text above the span, without the
	// leading hashes. Empty for text before the first header.
	Header string
	// Content is the raw source text of the span, header line included.
	Content string
}

// MarkdownSections splits markdown into sections at headers of level 1-4.
// Fenced code blocks are left intact. The raw source of each section is
// preserved so downstream summarization sees exactly the author's text.
func MarkdownSections(text string) []Section {
	var sections []Section
	var header string
	var buf []string
	inFence := false

	flush := func() {
		content := strings.TrimSpace(strings.Join(buf, "\n"))
		if content != "" {
			sections = append(sections, Section{Header: header, Content: content})
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}
		if !inFence {
			if h, ok := headerText(trimmed); ok {
				flush()
				header = h
				buf = append(buf, line)
				continue
			}
		}
		buf = append(buf, line)
	}
	flush()

	return sections
}

// StripFooter drops everything after the last `* * *` rule, which article
// feeds use to delimit boilerplate from body text. Text without the marker
// is returned unchanged.
func StripFooter(text string) string {
	idx := strings.LastIndex(text, "* * *")
	if idx < 0 {
		return text
	}
	return text[:idx]
}

func headerText(line string) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 4 || level >= len(line) || line[level] != ' ' {
		return "", false
	}
	return strings.TrimSpace(line[level:]), true
}
