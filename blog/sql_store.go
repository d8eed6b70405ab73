package blog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

var _ Repository = (*SQLStore)(nil)

// SQLStore persists posts as rows in a single SQLite table. Columns are the
// snake_case transliteration of the record fields; tags are stored as a JSON
// array in a nullable text column.
type SQLStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLStore opens (or creates) the database at path, ensures the data
// directory exists, and runs schema setup.
func NewSQLStore(path string, logger zerolog.Logger) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// WAL for concurrent read/write access; busy_timeout so writers wait
	// instead of failing with SQLITE_BUSY; synchronous=NORMAL is safe under
	// WAL and skips an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &SQLStore{db: db, logger: logger.With().Str("backend", "sqlite").Logger()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blogs (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    tags TEXT,
    cover_image TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

// blogRow mirrors the table schema. Tags is nullable: a NULL column reads
// back as an empty tag list, never a nil-pointer surprise for callers.
type blogRow struct {
	ID         string
	Slug       string
	Title      string
	Content    string
	Excerpt    string
	Tags       sql.NullString
	CoverImage string
	Status     string
	CreatedAt  string
	UpdatedAt  string
}

func (r *blogRow) toPost() (Post, error) {
	tags := []string{}
	if r.Tags.Valid && r.Tags.String != "" {
		if err := json.Unmarshal([]byte(r.Tags.String), &tags); err != nil {
			return Post{}, fmt.Errorf("parse tags for %s: %w", r.ID, err)
		}
	}
	return Post{
		ID:         r.ID,
		Slug:       r.Slug,
		Title:      r.Title,
		Content:    r.Content,
		Excerpt:    r.Excerpt,
		Tags:       tags,
		CoverImage: r.CoverImage,
		Status:     Status(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

const listQuery = `
	SELECT id, slug, title, content, excerpt, tags, cover_image, status, created_at, updated_at
	FROM blogs
	ORDER BY created_at DESC
`

// List returns all rows, ordered newest first at the query level. A failed
// query degrades to an empty result with a diagnostic; a row that fails to
// scan or decode is skipped, the rest of the listing survives.
func (s *SQLStore) List(ctx context.Context) ListResult {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		s.logger.Warn().Err(err).Msg("list: query failed")
		return ListResult{Errs: []error{fmt.Errorf("list posts: %w", err)}}
	}
	defer rows.Close()

	var result ListResult
	for rows.Next() {
		var r blogRow
		if err := rows.Scan(&r.ID, &r.Slug, &r.Title, &r.Content, &r.Excerpt, &r.Tags, &r.CoverImage, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			result.Errs = append(result.Errs, fmt.Errorf("scan post row: %w", err))
			continue
		}
		p, err := r.toPost()
		if err != nil {
			result.Errs = append(result.Errs, err)
			continue
		}
		result.Posts = append(result.Posts, p)
	}
	if err := rows.Err(); err != nil {
		result.Errs = append(result.Errs, fmt.Errorf("iterate post rows: %w", err))
	}

	for _, err := range result.Errs {
		s.logger.Warn().Err(err).Msg("list: skipping undecodable row")
	}
	return result
}

const getQuery = `
	SELECT id, slug, title, content, excerpt, tags, cover_image, status, created_at, updated_at
	FROM blogs
	WHERE id = ?
`

// Get resolves one post by primary key. ErrNoRows and decode failures are
// both absence.
func (s *SQLStore) Get(ctx context.Context, id string) (Post, bool) {
	var r blogRow
	err := s.db.QueryRowContext(ctx, getQuery, id).Scan(
		&r.ID, &r.Slug, &r.Title, &r.Content, &r.Excerpt, &r.Tags, &r.CoverImage, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn().Err(err).Str("id", id).Msg("get: query failed")
		}
		return Post{}, false
	}
	p, err := r.toPost()
	if err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("get: corrupt row")
		return Post{}, false
	}
	return p, true
}

const upsertQuery = `
	INSERT INTO blogs (id, slug, title, content, excerpt, tags, cover_image, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		slug = excluded.slug,
		title = excluded.title,
		content = excluded.content,
		excerpt = excluded.excerpt,
		tags = excluded.tags,
		cover_image = excluded.cover_image,
		status = excluded.status,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at
`

// Put upserts the row keyed on id. Failures carry the underlying driver
// message back to the caller.
func (s *SQLStore) Put(ctx context.Context, p Post) error {
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("encode tags for %s: %w", p.ID, err)
	}
	_, err = s.db.ExecContext(ctx, upsertQuery,
		p.ID, p.Slug, p.Title, p.Content, p.Excerpt, string(tags), p.CoverImage, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save post %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes the row. Deleting an absent id matches zero rows and is
// not an error.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
