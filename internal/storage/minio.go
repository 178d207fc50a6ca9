package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/tags"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"kmapi/internal/config"
)

// minioStorage implements the Storage interface using an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.StorageConfig) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	tr, err := minio.DefaultTransport(cfg.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("create minio transport: %w", err)
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: otelhttp.NewTransport(tr),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStorage{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

// Put uploads an object using streaming I/O only (no local disk).
func (m *minioStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	putOpts := minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
		UserTags:     opt.Tags,
	}
	info, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, putOpts)
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  opt.ContentType,
		LastModified: time.Now().UTC(), // PutObject does not report LastModified
		Metadata:     opt.Metadata,
		Tags:         opt.Tags,
	}, nil
}

// Get downloads an object content as a ReadCloser along with basic info.
func (m *minioStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, mapMinIOError(err)
	}
	// GetObject is lazy; Stat surfaces a missing key.
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, ObjectInfo{}, mapMinIOError(err)
	}
	return obj, fromMinIOInfo(st), nil
}

func (m *minioStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	st, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, mapMinIOError(err)
	}
	return fromMinIOInfo(st), nil
}

// Delete removes an object by key.
func (m *minioStorage) Delete(ctx context.Context, key string) error {
	return mapMinIOError(m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}))
}

// PresignGet generates a pre-signed URL for GET with the specified expiry.
func (m *minioStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// List reads at most PageSize objects after the key carried by the continuation token.
// The listing goroutine is cancelled as soon as the page is full.
func (m *minioStorage) List(ctx context.Context, opt ListOptions) (ListPage, error) {
	startAfter, err := decodeToken(opt.ContinuationToken)
	if err != nil {
		return ListPage{}, err
	}

	if opt.PageSize <= 0 {
		opt.PageSize = MaxPageSize
	}

	ctx, cancel := context.WithCancel(ctx)
	ch := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:       opt.Prefix,
		Recursive:    true,
		StartAfter:   startAfter,
		MaxKeys:      opt.PageSize,
		WithMetadata: true,
	})
	// The lister reports cancellation on ch before closing it, so it must be drained.
	defer func() {
		cancel()
		for range ch {
		}
	}()

	page := ListPage{Objects: make([]ObjectInfo, 0, opt.PageSize)}
	for obj := range ch {
		if obj.Err != nil {
			return ListPage{}, mapMinIOError(obj.Err)
		}
		if len(page.Objects) == opt.PageSize {
			page.ContinuationToken = encodeToken(page.Objects[len(page.Objects)-1].Key)
			break
		}
		page.Objects = append(page.Objects, fromMinIOInfo(obj))
	}
	return page, nil
}

func (m *minioStorage) GetTags(ctx context.Context, key string) (map[string]string, error) {
	t, err := m.client.GetObjectTagging(ctx, m.bucket, key, minio.GetObjectTaggingOptions{})
	if err != nil {
		return nil, mapMinIOError(err)
	}
	return t.ToMap(), nil
}

func (m *minioStorage) SetTags(ctx context.Context, key string, tagSet map[string]string) error {
	t, err := tags.NewTags(tagSet, true)
	if err != nil {
		return fmt.Errorf("invalid tags: %w", err)
	}
	return mapMinIOError(m.client.PutObjectTagging(ctx, m.bucket, key, t, minio.PutObjectTaggingOptions{}))
}

// SetMetadata rewrites user metadata with a server-side self-copy.
func (m *minioStorage) SetMetadata(ctx context.Context, key string, metadata map[string]string) error {
	st, err := m.Stat(ctx, key)
	if err != nil {
		return err
	}

	meta := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	if st.ContentType != "" {
		meta["Content-Type"] = st.ContentType
	}

	_, err = m.client.CopyObject(ctx,
		minio.CopyDestOptions{
			Bucket:          m.bucket,
			Object:          key,
			UserMetadata:    meta,
			ReplaceMetadata: true,
		},
		minio.CopySrcOptions{Bucket: m.bucket, Object: key},
	)
	return mapMinIOError(err)
}

func fromMinIOInfo(o minio.ObjectInfo) ObjectInfo {
	return ObjectInfo{
		Key:          o.Key,
		Size:         o.Size,
		ETag:         o.ETag,
		ContentType:  o.ContentType,
		LastModified: o.LastModified,
		Metadata:     normalizeMetadata(o.UserMetadata),
		Tags:         o.UserTags,
	}
}

// normalizeMetadata lower-cases keys and drops the x-amz-meta- prefix that listings keep.
func normalizeMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.ToLower(k)
		if k == "content-type" {
			continue
		}
		out[strings.TrimPrefix(k, "x-amz-meta-")] = v
	}
	return out
}

func mapMinIOError(err error) error {
	if err == nil {
		return nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
