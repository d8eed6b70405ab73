package inkwell

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/inkwell-engine/inkwell/blog"
)

// Config holds all configuration for an inkwell site. Every field comes from
// the environment exactly once, at startup; nothing reads the environment
// after ConfigFromEnv returns, so tests can build any Config by hand.
type Config struct {
	Name string `env:"INKWELL_SITE_NAME"` // Site name (default "Blog")
	URL  string `env:"INKWELL_SITE_URL"`  // Canonical URL (default "http://localhost:3000")
	Addr string `env:"INKWELL_ADDR"`      // Listen address (default ":3000")

	// Storage backend selection. An explicit backend name wins; otherwise a
	// non-empty BlobAccessKey selects the object store, else the filesystem.
	StorageBackend string `env:"INKWELL_STORAGE_BACKEND"`
	ContentDir     string `env:"INKWELL_CONTENT_DIR"` // Filesystem backend root (default "content/blogs")
	DatabasePath   string `env:"INKWELL_DB_PATH"`     // SQLite path (default "data/blog.db")

	BlobEndpoint  string `env:"BLOB_ENDPOINT"`
	BlobAccessKey string `env:"BLOB_ACCESS_KEY"`
	BlobSecretKey string `env:"BLOB_SECRET_KEY"`
	BlobBucket    string `env:"BLOB_BUCKET"`
	BlobSSL       bool   `env:"BLOB_USE_SSL"`

	AdminPassword string `env:"ADMIN_PASSWORD"`        // Required: admin login password
	SessionSecret string `env:"ADMIN_SESSION_SECRET"`  // Required: session encryption secret
	CookieSecure  bool   `env:"INKWELL_COOKIE_SECURE"` // Set true for HTTPS

	UploadsDir   string        `env:"INKWELL_UPLOADS_DIR"`    // Cover image directory (default "public/uploads")
	ViewCacheTTL time.Duration `env:"INKWELL_VIEW_CACHE_TTL"` // Rendered-view TTL (default 5min)
}

// ConfigFromEnv parses the environment into a Config and applies defaults.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blogs"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.BlobBucket == "" {
		c.BlobBucket = "content"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "public/uploads"
	}
	if c.ViewCacheTTL == 0 {
		c.ViewCacheTTL = 5 * time.Minute
	}
}

// storage maps the flat site config onto the blog package's backend config.
func (c Config) storage() blog.StorageConfig {
	return blog.StorageConfig{
		Backend:         c.StorageBackend,
		ContentDir:      c.ContentDir,
		ObjectEndpoint:  c.BlobEndpoint,
		ObjectAccessKey: c.BlobAccessKey,
		ObjectSecretKey: c.BlobSecretKey,
		ObjectBucket:    c.BlobBucket,
		ObjectSSL:       c.BlobSSL,
		DatabasePath:    c.DatabasePath,
	}
}
