// Package evidence merges summary lookups and similarity hits into one
// bounded context block for model consumption.
//
// Summary sections come first, in the order the model requested them, and
// absorb any matching chunk group so the same article never appears twice.
// Remaining chunk groups follow in similarity order. Sections are delimited
// by a separator token the downstream prompt explains to the model.
package evidence

import (
	"sort"
	"strings"

	"github.com/corpusai/corpuschat/chunkstore"
)

// Separator is the section boundary marker in assembled evidence.
const Separator = "-----"

// Summary is one (title, synopsis, url) tuple for an article the model
// explicitly named, in request order.
type Summary struct {
	Title   string
	Summary string
	URL     string
}

// ChunkGroup holds one article's retrieved chunk texts, most similar first.
type ChunkGroup struct {
	URL   string
	Texts []string
}

// GroupedChunks maps article titles to their chunk groups while preserving
// the order titles first appeared in the ranked results.
type GroupedChunks struct {
	Order  []string
	Groups map[string]ChunkGroup
}

// Group sorts similarity hits ascending by distance (stable, so ties keep
// the store's return order) and groups them by article title. Pre-sorted
// input produces identical grouping.
func Group(results []chunkstore.Result) GroupedChunks {
	sorted := make([]chunkstore.Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Distance < sorted[j].Distance
	})

	grouped := GroupedChunks{Groups: make(map[string]ChunkGroup)}
	for _, r := range sorted {
		g, ok := grouped.Groups[r.Title]
		if !ok {
			grouped.Order = append(grouped.Order, r.Title)
			g = ChunkGroup{URL: r.URL}
		}
		g.Texts = append(g.Texts, r.Text)
		grouped.Groups[r.Title] = g
	}
	return grouped
}

// Assemble combines summaries and grouped chunks into a single text block.
//
// For each summary in order: a `[title](url)` header, a synopsis line, then
// the article's chunk texts if similarity search also hit it. Titles covered
// by a summary are consumed so each article's material appears exactly once.
// Chunk groups without a summary follow, in grouping order. Empty inputs
// produce an empty string; callers treat that as "decline to answer", not
// as an error.
func Assemble(summaries []Summary, chunks GroupedChunks) string {
	var lines []string
	consumed := make(map[string]bool, len(summaries))

	for _, s := range summaries {
		lines = append(lines, "["+s.Title+"]("+s.URL+")")
		lines = append(lines, "Summary: "+s.Summary)
		if g, ok := chunks.Groups[s.Title]; ok {
			lines = append(lines, g.Texts...)
			consumed[s.Title] = true
		}
		lines = append(lines, Separator)
	}

	for _, title := range chunks.Order {
		if consumed[title] {
			continue
		}
		g := chunks.Groups[title]
		lines = append(lines, "["+title+"]("+g.URL+")")
		lines = append(lines, g.Texts...)
		lines = append(lines, Separator)
	}

	return strings.Trim(strings.Join(lines, "\n"), "-\n")
}
