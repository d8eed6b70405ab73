package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

var _ Repository = (*ObjectStore)(nil)

// objectPrefix is the key prefix all post objects live under, mirroring the
// filesystem backend's content directory.
const objectPrefix = "blogs/"

// objectAPI is the slice of the object-store client this backend uses.
// Tests substitute an in-memory implementation; production wraps the minio
// client in minioAPI.
type objectAPI interface {
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// minioAPI adapts *minio.Client to objectAPI. Only GetObject needs a shim:
// its concrete *minio.Object return narrows to io.ReadCloser here.
type minioAPI struct {
	*minio.Client
}

func (m minioAPI) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return m.Client.GetObject(ctx, bucket, key, opts)
}

// ObjectStore persists each post as a private JSON object in an
// S3-compatible bucket, keyed blogs/<id>.json. Put overwrites in place; the
// id already disambiguates, so no versioning or key suffixing happens here.
type ObjectStore struct {
	client objectAPI
	bucket string
	logger zerolog.Logger
}

// NewObjectStore builds the blob backend from the object-store fields of
// cfg. It does not dial; connectivity problems surface on first use.
func NewObjectStore(cfg StorageConfig, logger zerolog.Logger) (*ObjectStore, error) {
	client, err := minio.New(cfg.ObjectEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ObjectAccessKey, cfg.ObjectSecretKey, ""),
		Secure: cfg.ObjectSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("object store client: %w", err)
	}
	return &ObjectStore{
		client: minioAPI{client},
		bucket: cfg.ObjectBucket,
		logger: logger.With().Str("backend", "object").Logger(),
	}, nil
}

func objectKey(id string) string {
	return objectPrefix + id + ".json"
}

// List enumerates every object under the post prefix, then fetches and
// decodes them concurrently. A failed fetch or decode drops that one record
// into ListResult.Errs without aborting the rest of the fan-out.
func (s *ObjectStore) List(ctx context.Context) ListResult {
	var keys []string
	var result ListResult
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    objectPrefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			s.logger.Warn().Err(info.Err).Msg("list: object enumeration failed")
			result.Errs = append(result.Errs, fmt.Errorf("enumerate objects: %w", info.Err))
			continue
		}
		keys = append(keys, info.Key)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, key := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.fetch(ctx, key)
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
		s.logger.Warn().Err(err).Msg("list: skipping undecodable object")
	}

	sortNewestFirst(result.Posts)
	return result
}

func (s *ObjectStore) fetch(ctx context.Context, key string) (Post, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Post{}, fmt.Errorf("fetch %s: %w", key, err)
	}
	defer obj.Close()

	// The object body must be drained fully before decoding; GetObject is
	// lazy and surfaces transport errors on Read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return Post{}, fmt.Errorf("read %s: %w", key, err)
	}
	var p Post
	if err := json.Unmarshal(data, &p); err != nil {
		return Post{}, fmt.Errorf("parse %s: %w", key, err)
	}
	return p, nil
}

// Get resolves one post by id. Missing keys and decode failures are absence.
func (s *ObjectStore) Get(ctx context.Context, id string) (Post, bool) {
	p, err := s.fetch(ctx, objectKey(id))
	if err != nil {
		// A straight miss is expected; anything else deserves a diagnostic.
		var resp minio.ErrorResponse
		if !errors.As(err, &resp) || resp.Code != "NoSuchKey" {
			s.logger.Warn().Err(err).Str("id", id).Msg("get: object fetch failed")
		}
		return Post{}, false
	}
	return p, true
}

// Put uploads the post as application/json, overwriting any existing object
// at the same key. Upload failures are returned to the caller.
func (s *ObjectStore) Put(ctx context.Context, p Post) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode post %s: %w", p.ID, err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, objectKey(p.ID), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload post %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes the post object. S3 deletes are idempotent already, so a
// missing key is not an error.
func (s *ObjectStore) Delete(ctx context.Context, id string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectKey(id), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}
