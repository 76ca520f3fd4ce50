package corpus

import (
	"context"
	"fmt"
)

// Roster is the closed enumeration of articles a chat engine knows about,
// ordered most recent first. It is built once per engine lifetime; articles
// ingested later are not visible until a new engine (and conversation) is
// created with a refreshed roster.
type Roster struct {
	articles []Article
	byTitle  map[string]Article
}

// LoadRoster builds a roster from the store's current contents.
func LoadRoster(ctx context.Context, store Store) (*Roster, error) {
	articles, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus: loading roster: %w", err)
	}
	return NewRoster(articles), nil
}

// NewRoster builds a roster from articles already ordered most recent first.
func NewRoster(articles []Article) *Roster {
	byTitle := make(map[string]Article, len(articles))
	for _, a := range articles {
		byTitle[a.Title] = a
	}
	return &Roster{articles: articles, byTitle: byTitle}
}

// Len returns the number of articles in the roster.
func (r *Roster) Len() int {
	return len(r.articles)
}

// Articles returns the roster entries, most recent first.
func (r *Roster) Articles() []Article {
	out := make([]Article, len(r.articles))
	copy(out, r.articles)
	return out
}

// Titles returns all article titles, most recent first. This is the closed
// enumeration declared in the retrieval tool schema.
func (r *Roster) Titles() []string {
	titles := make([]string, len(r.articles))
	for i, a := range r.articles {
		titles[i] = a.Title
	}
	return titles
}

// Lookup resolves an exact title to its article. A miss is a normal outcome:
// the model may name a title that isn't in the corpus.
func (r *Roster) Lookup(title string) (Article, bool) {
	a, ok := r.byTitle[title]
	return a, ok
}

// Lines formats the roster for prompt display, one numbered line per article.
func (r *Roster) Lines() []string {
	lines := make([]string, len(r.articles))
	for i, a := range r.articles {
		lines[i] = fmt.Sprintf("%d. %s (%s)", i+1, a.Title, a.PublishedAt.Format("Jan 02, 2006"))
	}
	return lines
}

// Newest returns the most recent article and false if the roster is empty.
func (r *Roster) Newest() (Article, bool) {
	if len(r.articles) == 0 {
		return Article{}, false
	}
	return r.articles[0], true
}

// Oldest returns the oldest article and false if the roster is empty.
func (r *Roster) Oldest() (Article, bool) {
	if len(r.articles) == 0 {
		return Article{}, false
	}
	return r.articles[len(r.articles)-1], true
}
