package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpusai/corpuschat/corpus"
)

func TestMarkdownSections(t *testing.T) {
	text := "intro paragraph\n\n# First\n\nbody one\n\n## Second\n\nbody two"

	sections := MarkdownSections(text)
	require.Len(t, sections, 3)

	assert.Equal(t, "", sections[0].Header)
	assert.Equal(t, "intro paragraph", sections[0].Content)

	assert.Equal(t, "First", sections[1].Header)
	assert.Equal(t, "# First\n\nbody one", sections[1].Content)

	assert.Equal(t, "Second", sections[2].Header)
	assert.Equal(t, "## Second\n\nbody two", sections[2].Content)
}

func TestMarkdownSectionsIgnoresHeadersInCodeFences(t *testing.T) {
	text := "# Real\n\n```\n# not a header\n```\n\nafter"

	sections := MarkdownSections(text)
	require.Len(t, sections, 1)
	assert.Equal(t, "Real", sections[0].Header)
	assert.Contains(t, sections[0].Content, "# not a header")
}

func TestMarkdownSectionsHeaderEdgeCases(t *testing.T) {
	// Level 5 headers and hash lines without a space do not split.
	sections := MarkdownSections("# Top\n\n##### deep\n\n#hashtag\n\nbody")
	require.Len(t, sections, 1)
	assert.Equal(t, "Top", sections[0].Header)
}

func TestMarkdownSectionsEmptyInput(t *testing.T) {
	assert.Empty(t, MarkdownSections(""))
	assert.Empty(t, MarkdownSections("\n\n\n"))
}

func TestStripFooter(t *testing.T) {
	assert.Equal(t, "body\n\n", StripFooter("body\n\n* * *\n\nsubscribe now"))
	assert.Equal(t, "no marker here", StripFooter("no marker here"))
}

func TestStripFooterUsesLastMarker(t *testing.T) {
	got := StripFooter("a\n* * *\nb\n* * *\nfooter")
	assert.Contains(t, got, "b")
	assert.NotContains(t, got, "footer")
}

func TestMarkdownChunkerSplit(t *testing.T) {
	chunker := NewMarkdownChunker(WithChunkSize(50))
	article := articleFixture()

	chunks, err := chunker.Split(article, "# Header\n\nSome body text that should end up in a chunk.\n\n## Another\n\nMore text here to force a second chunk out of the splitter.")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.Equal(t, article.ID, c.ArticleID)
		assert.Equal(t, article.Title, c.Title)
		assert.Equal(t, article.URL, c.URL)
		assert.Equal(t, i, c.Seq)
		assert.NotEmpty(t, c.Text)
	}
}

func articleFixture() corpus.Article {
	return corpus.Article{
		ID:    "a1",
		Title: "An Article",
		URL:   "https://example.com/a1",
	}
}

func TestMarkdownChunkerStableIDs(t *testing.T) {
	chunker := NewMarkdownChunker()
	article := articleFixture()
	markdown := "# Header\n\nsame text"

	first, err := chunker.Split(article, markdown)
	require.NoError(t, err)
	second, err := chunker.Split(article, markdown)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}
