package blog

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func setupSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLStore(filepath.Join(t.TempDir(), "data", "blog.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLStoreRoundTrip(t *testing.T) {
	s := setupSQLStore(t)
	ctx := context.Background()

	want := Post{
		ID:         "a1",
		Slug:       "round-trip-1a2b",
		Title:      "Round Trip",
		Content:    "<p>Body</p>",
		Excerpt:    "Body",
		Tags:       []string{"go", "sqlite"},
		CoverImage: "/public/uploads/cover.jpg",
		Status:     StatusDraft,
		CreatedAt:  "2024-01-15T10:00:00Z",
		UpdatedAt:  "2024-01-16T09:30:00Z",
	}
	if err := s.Put(ctx, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := s.Get(ctx, "a1")
	if !ok {
		t.Fatal("Get returned absent for a stored post")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSQLStoreGetMissing(t *testing.T) {
	s := setupSQLStore(t)
	if _, ok := s.Get(context.Background(), "nonexistent-id"); ok {
		t.Error("Get on an empty store should report absence")
	}
}

func TestSQLStoreUpsert(t *testing.T) {
	s := setupSQLStore(t)
	ctx := context.Background()

	p := samplePost("a1", "2024-01-15T10:00:00Z")
	if err := s.Put(ctx, p); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	p.Title = "Replaced"
	p.Tags = []string{"updated"}
	if err := s.Put(ctx, p); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, _ := s.Get(ctx, "a1")
	if got.Title != "Replaced" {
		t.Errorf("Title = %q, want %q", got.Title, "Replaced")
	}
	if !reflect.DeepEqual(got.Tags, []string{"updated"}) {
		t.Errorf("Tags = %v, want [updated]", got.Tags)
	}

	result := s.List(ctx)
	if len(result.Posts) != 1 {
		t.Errorf("List returned %d posts after upsert, want 1", len(result.Posts))
	}
}

func TestSQLStoreNullTagsReadAsEmpty(t *testing.T) {
	s := setupSQLStore(t)
	ctx := context.Background()

	_, err := s.db.Exec(`
		INSERT INTO blogs (id, slug, title, content, excerpt, tags, cover_image, status, created_at, updated_at)
		VALUES ('legacy', 'legacy-0000', 'Legacy', '<p>x</p>', 'x', NULL, '', 'published', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')
	`)
	if err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	got, ok := s.Get(ctx, "legacy")
	if !ok {
		t.Fatal("Get returned absent for legacy row")
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("NULL tags column should read as empty slice, got %#v", got.Tags)
	}
}

func TestSQLStoreListOrderedByCreatedAtDesc(t *testing.T) {
	s := setupSQLStore(t)
	ctx := context.Background()

	for _, p := range []Post{
		samplePost("old", "2023-06-01T00:00:00Z"),
		samplePost("new", "2024-06-01T00:00:00Z"),
		samplePost("mid", "2024-01-01T00:00:00Z"),
	} {
		if err := s.Put(ctx, p); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	result := s.List(ctx)
	if result.Degraded() {
		t.Fatalf("unexpected degraded listing: %v", result.Errs)
	}
	var ids []string
	for _, p := range result.Posts {
		ids = append(ids, p.ID)
	}
	want := []string{"new", "mid", "old"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("List order = %v, want %v", ids, want)
	}
}

func TestSQLStoreListSkipsCorruptTags(t *testing.T) {
	s := setupSQLStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, samplePost("good", "2024-01-15T10:00:00Z")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	_, err := s.db.Exec(`
		INSERT INTO blogs (id, slug, title, content, excerpt, tags, cover_image, status, created_at, updated_at)
		VALUES ('bad', 'bad-0000', 'Bad', '<p>x</p>', 'x', '{not json', '', 'published', '2024-02-01T00:00:00Z', '2024-02-01T00:00:00Z')
	`)
	if err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	result := s.List(ctx)
	if !result.Degraded() {
		t.Fatal("listing with an undecodable row should be degraded")
	}
	if len(result.Posts) != 1 || result.Posts[0].ID != "good" {
		t.Errorf("surviving posts = %+v, want just the good one", result.Posts)
	}
}

func TestSQLStoreDeleteIdempotent(t *testing.T) {
	s := setupSQLStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, samplePost("a1", "2024-01-15T10:00:00Z")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Delete(ctx, "a1"); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "a1"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if _, ok := s.Get(ctx, "a1"); ok {
		t.Error("post still present after delete")
	}
}
