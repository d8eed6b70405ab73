// Package blog holds the content model, the storage abstraction, and the
// service that owns the business rules for posts. Everything above this
// package (handlers, caches, templates) is presentation glue; everything
// below it is one of three interchangeable storage backends.
package blog

// Status controls public visibility of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Post is the sole content entity. The JSON field names are the persisted
// record shape and must stay stable across all backends.
type Post struct {
	ID         string   `json:"id"`
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	Tags       []string `json:"tags"`
	CoverImage string   `json:"coverImage"`
	Status     Status   `json:"status"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// FormData is what the editor submits on create and update. The service
// computes everything else (id, slug, excerpt, timestamps); callers never
// supply those.
type FormData struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	CoverImage string   `json:"coverImage"`
	Status     Status   `json:"status"`
}
