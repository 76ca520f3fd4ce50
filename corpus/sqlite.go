package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore implements Store using SQLite.
type SqliteStore struct {
	db        *sql.DB
	tableName string
}

var _ Store = (*SqliteStore)(nil)

// SqliteOptions configuration for the SQLite corpus store
type SqliteOptions struct {
	Path      string
	TableName string // Default "articles"
}

// NewSqliteStore opens (creating if needed) a SQLite-backed corpus store.
func NewSqliteStore(opts SqliteOptions) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("corpus: unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "articles"
	}

	store := &SqliteStore{db: db, tableName: tableName}
	if err := store.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SqliteStore) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			url TEXT NOT NULL,
			published_at DATETIME NOT NULL,
			summary TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_%s_title ON %s (title);
		CREATE INDEX IF NOT EXISTS idx_%s_published_at ON %s (published_at);
	`, s.tableName, s.tableName, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("corpus: failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

// Upsert inserts or overwrites an article keyed by ID.
func (s *SqliteStore) Upsert(ctx context.Context, a Article) error {
	if a.ID == "" {
		return errors.New("corpus: article id is required")
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, url, published_at, summary)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			url = excluded.url,
			published_at = excluded.published_at,
			summary = excluded.summary
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query, a.ID, a.Title, a.URL, a.PublishedAt.UTC(), a.Summary)
	if err != nil {
		return fmt.Errorf("corpus: failed to upsert article %s: %w", a.ID, err)
	}
	return nil
}

// Get returns the article with the given ID.
func (s *SqliteStore) Get(ctx context.Context, id string) (Article, error) {
	query := fmt.Sprintf(`SELECT id, title, url, published_at, summary FROM %s WHERE id = ?`, s.tableName)
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

// GetByTitle returns the article with the given exact title.
func (s *SqliteStore) GetByTitle(ctx context.Context, title string) (Article, error) {
	query := fmt.Sprintf(`SELECT id, title, url, published_at, summary FROM %s WHERE title = ?`, s.tableName)
	return s.scanOne(s.db.QueryRowContext(ctx, query, title))
}

// List returns all articles ordered most recent first.
func (s *SqliteStore) List(ctx context.Context) ([]Article, error) {
	query := fmt.Sprintf(`SELECT id, title, url, published_at, summary FROM %s ORDER BY published_at DESC`, s.tableName)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("corpus: failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		var published time.Time
		if err := rows.Scan(&a.ID, &a.Title, &a.URL, &published, &a.Summary); err != nil {
			return nil, fmt.Errorf("corpus: failed to scan article: %w", err)
		}
		a.PublishedAt = published
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("corpus: failed to iterate articles: %w", err)
	}
	return articles, nil
}

// SetSummary attaches a precomputed summary to an article.
func (s *SqliteStore) SetSummary(ctx context.Context, id, summary string) error {
	query := fmt.Sprintf(`UPDATE %s SET summary = ? WHERE id = ?`, s.tableName)
	res, err := s.db.ExecContext(ctx, query, summary, id)
	if err != nil {
		return fmt.Errorf("corpus: failed to set summary for %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("corpus: failed to set summary for %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SqliteStore) scanOne(row *sql.Row) (Article, error) {
	var a Article
	var published time.Time
	err := row.Scan(&a.ID, &a.Title, &a.URL, &published, &a.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, ErrNotFound
	}
	if err != nil {
		return Article{}, fmt.Errorf("corpus: failed to scan article: %w", err)
	}
	a.PublishedAt = published
	return a, nil
}
