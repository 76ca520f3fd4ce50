// Package summarize produces article synopses used as retrieval evidence.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/corpusai/corpuschat/corpus"
	"github.com/corpusai/corpuschat/llm"
	"github.com/corpusai/corpuschat/log"
	"github.com/corpusai/corpuschat/splitter"
)

// Summarizer condenses an article with a map-reduce pass: each markdown
// section is summarized on its own, then the section summaries are merged
// into one plain-text paragraph.
type Summarizer struct {
	client     llm.Client
	model      string
	corpusName string
	logger     log.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithModel selects the completion model for summarization calls.
func WithModel(model string) Option {
	return func(s *Summarizer) { s.model = model }
}

// WithLogger overrides the package-level default logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Summarizer) { s.logger = logger }
}

// NewSummarizer creates a summarizer for articles of the named publication.
func NewSummarizer(client llm.Client, corpusName string, opts ...Option) *Summarizer {
	s := &Summarizer{
		client:     client,
		corpusName: corpusName,
		logger:     log.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize condenses an article's markdown into one paragraph. Interview
// pieces get interview-aware phrasing, keyed off the title.
func (s *Summarizer) Summarize(ctx context.Context, a corpus.Article, markdown string) (string, error) {
	body := splitter.StripFooter(markdown)
	sections := splitter.MarkdownSections(body)
	if len(sections) == 0 {
		return "", fmt.Errorf("summarize: article %q has no content", a.Title)
	}

	articleType := "article"
	if strings.Contains(a.Title, "Interview") {
		articleType = "interview"
	}

	sectionSummaries := make([]string, 0, len(sections))
	for _, section := range sections {
		prompt := fmt.Sprintf("Summarize the following snippet of a %s %s in markdown. "+
			"Use the author's name when describing their points in the third person. "+
			"Be concise and objective, with 3-5 sentences per section. "+
			"Return a plain text paragraph, no formatting or new lines: %s",
			s.corpusName, articleType, section.Content)

		msg, err := s.client.Complete(ctx, []llm.Message{llm.SystemMessage(prompt)}, s.callOptions()...)
		if err != nil {
			return "", fmt.Errorf("summarize: section %q of %q: %w", section.Header, a.Title, err)
		}

		summary := msg.Content
		if section.Header != "" {
			summary = section.Header + ": " + summary
		}
		sectionSummaries = append(sectionSummaries, summary)
		s.logger.Debug("summarize: %q section %q done", a.Title, section.Header)
	}

	reducePrompt := fmt.Sprintf("The following is a set of summaries from a %s %s split by its sections: %s "+
		"Take these and place it in a packaged, paragraph summary about the article. "+
		"In the event of an interview, intuit what the name abbreviations are from the section headers and use their names. "+
		"Mention the name of every section. The summary should use all the points mentioned below. "+
		"Return plain text paragraph, no formatting and no new lines.",
		s.corpusName, articleType, strings.Join(sectionSummaries, "\n"))

	msg, err := s.client.Complete(ctx, []llm.Message{llm.SystemMessage(reducePrompt)}, s.callOptions()...)
	if err != nil {
		return "", fmt.Errorf("summarize: reducing %q: %w", a.Title, err)
	}
	return msg.Content, nil
}

func (s *Summarizer) callOptions() []llm.CompleteOption {
	if s.model == "" {
		return nil
	}
	return []llm.CompleteOption{llm.WithModel(s.model)}
}
