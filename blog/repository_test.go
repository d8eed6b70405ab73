package blog

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestOpenRepositoryDefaultsToFilesystem(t *testing.T) {
	repo, err := OpenRepository(StorageConfig{ContentDir: t.TempDir()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenRepository failed: %v", err)
	}
	if _, ok := repo.(*FSStore); !ok {
		t.Errorf("got %T, want *FSStore", repo)
	}
}

func TestOpenRepositorySelectsObjectStoreByAccessKey(t *testing.T) {
	cfg := StorageConfig{
		ObjectEndpoint:  "localhost:9000",
		ObjectAccessKey: "inkwell",
		ObjectSecretKey: "secret",
		ObjectBucket:    "content",
	}
	repo, err := OpenRepository(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenRepository failed: %v", err)
	}
	if _, ok := repo.(*ObjectStore); !ok {
		t.Errorf("got %T, want *ObjectStore", repo)
	}
}

func TestOpenRepositoryExplicitBackendWins(t *testing.T) {
	// An access key is present, but the explicit backend overrides the
	// token-presence heuristic.
	cfg := StorageConfig{
		Backend:         BackendSQLite,
		ObjectAccessKey: "inkwell",
		DatabasePath:    filepath.Join(t.TempDir(), "blog.db"),
	}
	repo, err := OpenRepository(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenRepository failed: %v", err)
	}
	s, ok := repo.(*SQLStore)
	if !ok {
		t.Fatalf("got %T, want *SQLStore", repo)
	}
	s.Close()
}

func TestOpenRepositoryUnknownBackend(t *testing.T) {
	if _, err := OpenRepository(StorageConfig{Backend: "cassette-tape"}, zerolog.Nop()); err == nil {
		t.Error("unknown backend should be rejected")
	}
}
