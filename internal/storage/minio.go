package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/spywithcode/ntpc/internal/config"
)

// minioMirror mirrors stored assets to an S3-compatible bucket. It is
// a best-effort secondary copy: the content directory stays the
// authoritative store. Safe for concurrent use.
type minioMirror struct {
	client *minio.Client
	bucket string
}

// NewMinIOMirror creates a mirror backed by MinIO. It validates
// connectivity and ensures the bucket exists (creates it if missing).
// Returns (nil, nil) when no endpoint is configured: mirroring is
// optional.
func NewMinIOMirror(cfg config.MirrorConfig) (Mirror, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("mirror credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("mirror bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioMirror{client: cli, bucket: cfg.Bucket}, nil
}

// Put streams one stored asset to the bucket under its stored filename.
func (m *minioMirror) Put(ctx context.Context, filename string, r io.Reader, size int64) error {
	_, err := m.client.PutObject(ctx, m.bucket, filename, r, size, minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	return err
}

// Delete removes the mirrored copy by stored filename.
func (m *minioMirror) Delete(ctx context.Context, filename string) error {
	return m.client.RemoveObject(ctx, m.bucket, filename, minio.RemoveObjectOptions{})
}
