package chat

import (
	"fmt"
	"strings"

	"github.com/corpusai/corpuschat/corpus"
)

// PromptConfig describes the corpus the assistant speaks for. Only
// CorpusName is required; empty optional fields drop their prompt lines.
type PromptConfig struct {
	// CorpusName names the publication, e.g. "Acme Weekly".
	CorpusName string
	// CorpusURL is the publication's home page.
	CorpusURL string
	// ContactEmail is suggested when the assistant cannot answer.
	ContactEmail string
	// SubscribeURL is offered instead of reproducing full articles.
	SubscribeURL string
}

// SystemPrompt builds the immutable system message for a new conversation:
// persona, the full corpus roster (most recent first), citation rules, and
// the evidence format injected by the retrieval tool.
func SystemPrompt(cfg PromptConfig, roster *corpus.Roster) string {
	var b strings.Builder

	fmt.Fprintf(&b, "* You are a bot that knows everything about %s articles", cfg.CorpusName)
	if cfg.CorpusURL != "" {
		fmt.Fprintf(&b, " (%s)", cfg.CorpusURL)
	}
	b.WriteString(". You are smart, candid, and concise.\n")

	if oldest, ok := roster.Oldest(); ok {
		fmt.Fprintf(&b, "* You are trained on the %d most recent articles. The oldest article is from %s. ",
			roster.Len(), oldest.PublishedAt.Format("Jan 02, 2006"))
		fmt.Fprintf(&b, "Here are their names and publish dates from most recent to oldest:\n%s\n",
			strings.Join(roster.Lines(), "\n"))
	}

	b.WriteString("* You will answer questions using these articles. Always refer to the specific name " +
		"of the article you are citing and hyperlink to its url, as such: [Article Title](Article URL).\n")

	if cfg.ContactEmail != "" {
		fmt.Fprintf(&b, "* If you can't answer, explain why and suggest sending the question to %s.\n", cfg.ContactEmail)
	}

	b.WriteString("* A user's questions may be followed by a bunch of possible answers from the articles. " +
		"Each article is separated by `-----` and is formatted as such: " +
		"`[Article Title](Article URL)\\n[Chunk of Article Content]`. " +
		"Use your best judgement to answer the user's query based on the articles provided. " +
		"If no article content is provided and you don't know the answer, decline gracefully rather than guess.\n")

	if cfg.SubscribeURL != "" {
		fmt.Fprintf(&b, "* If you are asked to reproduce the text of an entire article, kindly decline and "+
			"point to %s instead.\n", cfg.SubscribeURL)
	}

	return b.String()
}
