package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var _ Repository = (*FSStore)(nil)

// FSStore persists one pretty-printed JSON file per post under a content
// directory. This is the local-dev backend: no credentials, no server,
// records you can open in an editor.
type FSStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFSStore creates a filesystem-backed repository rooted at dir. The
// directory is created lazily on first access.
func NewFSStore(dir string, logger zerolog.Logger) *FSStore {
	return &FSStore{dir: dir, logger: logger.With().Str("backend", "filesystem").Logger()}
}

func (s *FSStore) ensureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

func (s *FSStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// List reads every *.json file in the content directory concurrently and
// returns the posts sorted by creation time descending. A file that fails to
// read or parse is skipped and reported in ListResult.Errs; it never takes
// the rest of the listing down with it.
func (s *FSStore) List(ctx context.Context) ListResult {
	if err := s.ensureDir(); err != nil {
		s.logger.Warn().Err(err).Str("dir", s.dir).Msg("list: cannot access content directory")
		return ListResult{Errs: []error{fmt.Errorf("access content dir: %w", err)}}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn().Err(err).Str("dir", s.dir).Msg("list: cannot read content directory")
		return ListResult{Errs: []error{fmt.Errorf("read content dir: %w", err)}}
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result ListResult
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := entry.Name()
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.readFile(name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errs = append(result.Errs, err)
				return
			}
			result.Posts = append(result.Posts, p)
		}()
	}
	wg.Wait()

	for _, err := range result.Errs {
		s.logger.Warn().Err(err).Msg("list: skipping unreadable post file")
	}

	sortNewestFirst(result.Posts)
	return result
}

func (s *FSStore) readFile(name string) (Post, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return Post{}, fmt.Errorf("read %s: %w", name, err)
	}
	var p Post
	if err := json.Unmarshal(data, &p); err != nil {
		return Post{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return p, nil
}

// Get resolves one post by id. Any miss or decode failure is absence.
func (s *FSStore) Get(ctx context.Context, id string) (Post, bool) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return Post{}, false
	}
	var p Post
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("get: corrupt post file")
		return Post{}, false
	}
	return p, true
}

// Put upserts the post file. A failed write is returned to the caller;
// silent data loss on save is not acceptable.
func (s *FSStore) Put(ctx context.Context, p Post) error {
	if err := s.ensureDir(); err != nil {
		return fmt.Errorf("create content dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode post %s: %w", p.ID, err)
	}
	if err := os.WriteFile(s.path(p.ID), data, 0o644); err != nil {
		return fmt.Errorf("write post %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes the post file if present. A missing file is not an error.
func (s *FSStore) Delete(ctx context.Context, id string) error {
	err := os.Remove(s.path(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

// sortNewestFirst orders posts by CreatedAt descending. RFC 3339 timestamps
// sort correctly as strings.
func sortNewestFirst(posts []Post) {
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt > posts[j].CreatedAt
	})
}
