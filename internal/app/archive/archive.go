// Package archive stores a copy of each uploaded card batch in S3-compatible
// object storage for audit.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"box-skill-whisper/internal/app/cards"
)

// Config configures the MinIO connection.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// objectPutter is the subset of *minio.Client used here.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioArchive writes card batches as JSON objects.
type MinioArchive struct {
	client objectPutter
	bucket string
	prefix string
}

// NewMinioArchive connects to MinIO and creates the bucket when missing.
func NewMinioArchive(ctx context.Context, cfg Config) (*MinioArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioArchive{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Key returns the object key of a batch: <prefix>/<fileID>/<requestID>.json.
func (a *MinioArchive) Key(fileID, requestID string) string {
	return path.Join(a.prefix, fileID, requestID+".json")
}

// Archive uploads batch and returns its object key.
func (a *MinioArchive) Archive(ctx context.Context, fileID, requestID string, batch cards.CardBatch) (string, error) {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode card batch: %w", err)
	}

	key := a.Key(fileID, requestID)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
