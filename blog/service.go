package blog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Invalidator is how the service tells the presentation layer which cached
// views went stale after a write. There is no cache at this layer; the paths
// name renders the presentation layer may be holding.
type Invalidator interface {
	Invalidate(paths ...string)
}

// NoopInvalidator satisfies Invalidator for wiring without a view cache.
type NoopInvalidator struct{}

func (NoopInvalidator) Invalidate(paths ...string) {}

// NotFoundError reports an update against an id that has no record, naming
// the id so the caller can surface something better than a generic fault.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post %q not found", e.ID)
}

// Service owns the business rules around posts: id/slug/excerpt derivation,
// timestamp maintenance, the draft-visibility rule, and view invalidation.
// It is the sole caller of repository mutators and never branches on which
// backend sits behind the Repository.
type Service struct {
	repo   Repository
	views  Invalidator
	logger zerolog.Logger
	now    func() time.Time
}

// NewService wires a Service over the given repository. The invalidator
// receives the paths of views affected by each write.
func NewService(repo Repository, views Invalidator, logger zerolog.Logger) *Service {
	if views == nil {
		views = NoopInvalidator{}
	}
	return &Service{
		repo:   repo,
		views:  views,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// Create assembles a new post from form data and persists it. The service
// performs no validation; the presentation layer rejects empty titles and
// placeholder content before this is ever called.
func (s *Service) Create(ctx context.Context, form FormData) (Post, error) {
	now := s.timestamp()
	p := Post{
		ID:         GenerateID(),
		Slug:       GenerateSlug(form.Title),
		Title:      form.Title,
		Content:    form.Content,
		Excerpt:    GenerateExcerpt(form.Content, ExcerptLength),
		Tags:       form.Tags,
		CoverImage: form.CoverImage,
		Status:     form.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	s.views.Invalidate("/blogs", "/admin/blogs")
	return p, nil
}

// Update replaces all mutable fields of an existing post. The slug is
// regenerated only when the title changed; the excerpt is always recomputed
// from the new content; CreatedAt carries over untouched.
func (s *Service) Update(ctx context.Context, id string, form FormData) (Post, error) {
	existing, ok := s.repo.Get(ctx, id)
	if !ok {
		return Post{}, &NotFoundError{ID: id}
	}

	slug := existing.Slug
	if form.Title != existing.Title {
		slug = GenerateSlug(form.Title)
	}

	updated := Post{
		ID:         existing.ID,
		Slug:       slug,
		Title:      form.Title,
		Content:    form.Content,
		Excerpt:    GenerateExcerpt(form.Content, ExcerptLength),
		Tags:       form.Tags,
		CoverImage: form.CoverImage,
		Status:     form.Status,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  s.timestamp(),
	}
	if err := s.repo.Put(ctx, updated); err != nil {
		return Post{}, fmt.Errorf("update post %s: %w", id, err)
	}
	// A viewer may have either slug's detail view cached, so both go stale.
	s.views.Invalidate("/blogs", "/blogs/"+existing.Slug, "/blogs/"+updated.Slug, "/admin/blogs")
	return updated, nil
}

// Delete removes the post unconditionally. The repository's delete is
// already idempotent, so no existence check happens first, and failures are
// logged rather than surfaced: delete is best-effort.
func (s *Service) Delete(ctx context.Context, id string) {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("delete post failed")
	}
	s.views.Invalidate("/blogs", "/admin/blogs")
}

// All returns every post, newest first. Degraded reads are logged and served
// partial; the listing never hard-fails.
func (s *Service) All(ctx context.Context) []Post {
	result := s.repo.List(ctx)
	if result.Degraded() {
		s.logger.Warn().Int("dropped", len(result.Errs)).Msg("post listing degraded")
	}
	if result.Posts == nil {
		return []Post{}
	}
	return result.Posts
}

// Published returns only publicly visible posts. The draft filter lives
// here, not in the backends: visibility is a product rule, not a storage
// concern.
func (s *Service) Published(ctx context.Context) []Post {
	all := s.All(ctx)
	published := make([]Post, 0, len(all))
	for _, p := range all {
		if p.Status == StatusPublished {
			published = append(published, p)
		}
	}
	return published
}

// ByID resolves one post by id, drafts included.
func (s *Service) ByID(ctx context.Context, id string) (Post, bool) {
	return s.repo.Get(ctx, id)
}

// BySlug resolves one post by slug with a linear scan; the dataset is small
// enough that no slug index is kept.
func (s *Service) BySlug(ctx context.Context, slug string) (Post, bool) {
	for _, p := range s.All(ctx) {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}
