package blog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Repository is the backend-agnostic contract over post records. All three
// backends implement it with the same semantics:
//
//   - List never hard-fails: per-record problems are isolated into
//     ListResult.Errs and the records that decoded cleanly are still
//     returned, newest first.
//   - Get treats any miss or decode failure as absence.
//   - Put is an idempotent full upsert keyed on ID and must return an error
//     if the write could not be durably committed.
//   - Delete is idempotent: deleting an absent record is not an error.
type Repository interface {
	List(ctx context.Context) ListResult
	Get(ctx context.Context, id string) (Post, bool)
	Put(ctx context.Context, p Post) error
	Delete(ctx context.Context, id string) error
}

// ListResult is the outcome of a backend listing. A degraded read carries
// the posts that survived plus one error per record that did not, so callers
// can log the diagnostics without losing the page.
type ListResult struct {
	Posts []Post
	Errs  []error
}

// Degraded reports whether any record was dropped from the listing.
func (r ListResult) Degraded() bool {
	return len(r.Errs) > 0
}

// Backend names for explicit selection in StorageConfig.
const (
	BackendFilesystem = "filesystem"
	BackendObject     = "object"
	BackendSQLite     = "sqlite"
)

// StorageConfig selects and parameterizes a backend. It is assembled once at
// startup from the environment and handed to OpenRepository; nothing reads
// the environment after that, so tests can construct any backend directly.
type StorageConfig struct {
	// Backend forces a specific backend. When empty, a non-empty
	// ObjectAccessKey selects the object store, otherwise the filesystem.
	Backend string

	// Filesystem backend.
	ContentDir string

	// Object-store backend (any S3-compatible endpoint).
	ObjectEndpoint  string
	ObjectAccessKey string
	ObjectSecretKey string
	ObjectBucket    string
	ObjectSSL       bool

	// Relational backend.
	DatabasePath string
}

// OpenRepository is the single composition point for backend selection.
// Business logic never branches on backend type; it only ever sees the
// Repository interface returned here.
func OpenRepository(cfg StorageConfig, logger zerolog.Logger) (Repository, error) {
	backend := cfg.Backend
	if backend == "" {
		if cfg.ObjectAccessKey != "" {
			backend = BackendObject
		} else {
			backend = BackendFilesystem
		}
	}

	switch backend {
	case BackendFilesystem:
		return NewFSStore(cfg.ContentDir, logger), nil
	case BackendObject:
		return NewObjectStore(cfg, logger)
	case BackendSQLite:
		return NewSQLStore(cfg.DatabasePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
