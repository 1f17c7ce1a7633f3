package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/princekumarofficial/autohouse-service/internal/config"
	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
)

// MinIOBackend stores files in S3-compatible buckets, one bucket per media
// function.
type MinIOBackend struct {
	client  *minio.Client
	buckets sync.Map
}

// NewMinIOBackend returns an unconfigured backend when the endpoint or the
// credentials are missing.
func NewMinIOBackend(cfg config.MinIO) (*MinIOBackend, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return &MinIOBackend{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOBackend{client: client}, nil
}

func (b *MinIOBackend) Type() mediaTypes.StorageType {
	return mediaTypes.StorageRemoteBucket
}

func (b *MinIOBackend) IsConfigured() bool {
	return b.client != nil
}

// ensureBucket creates the bucket if it doesn't exist
func (b *MinIOBackend) ensureBucket(ctx context.Context, bucket string) error {
	if _, ok := b.buckets.Load(bucket); ok {
		return nil
	}

	exists, err := b.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = b.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	b.buckets.Store(bucket, struct{}{})
	return nil
}

func (b *MinIOBackend) Store(ctx context.Context, file mediaTypes.MediaFile, r io.Reader) error {
	if err := b.ensureBucket(ctx, file.Bucket); err != nil {
		return err
	}

	_, err := b.client.PutObject(ctx, file.Bucket, file.FileKey, r, file.Size, minio.PutObjectOptions{
		ContentType: file.ContentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s/%s: %w", file.Bucket, file.FileKey, err)
	}
	return nil
}

func (b *MinIOBackend) Retrieve(ctx context.Context, file mediaTypes.MediaFile, w io.Writer) error {
	obj, err := b.client.GetObject(ctx, file.Bucket, file.FileKey, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to get object %s/%s: %w", file.Bucket, file.FileKey, err)
	}
	defer obj.Close()

	if _, err := io.Copy(w, obj); err != nil {
		return fmt.Errorf("failed to read object %s/%s: %w", file.Bucket, file.FileKey, err)
	}
	return nil
}

func (b *MinIOBackend) Remove(ctx context.Context, file mediaTypes.MediaFile) error {
	return b.client.RemoveObject(ctx, file.Bucket, file.FileKey, minio.RemoveObjectOptions{})
}

// PresignedURL creates a presigned URL for downloading
func (b *MinIOBackend) PresignedURL(ctx context.Context, file mediaTypes.MediaFile, expiry time.Duration) (*url.URL, error) {
	return b.client.PresignedGetObject(ctx, file.Bucket, file.FileKey, expiry, nil)
}
