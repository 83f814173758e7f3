package assets

import (
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pelyams/car_catalog_service/internal/domain"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// Client, when set, is used instead of building one from the fields above.
	Client *minio.Client
}

func (c MinioConfig) validate() error {
	if c.Bucket == "" {
		return errors.New("bucket is required")
	}
	if c.Client == nil && c.Endpoint == "" {
		return errors.New("endpoint or client is required")
	}
	return nil
}

// MinioHost treats image public ids as object keys in a single bucket.
type MinioHost struct {
	client *minio.Client
	bucket string
}

func NewMinioHost(cfg MinioConfig) (*MinioHost, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid minio config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}
	return &MinioHost{client: client, bucket: cfg.Bucket}, nil
}

// DeleteAsset removes the object. Removing a key that does not exist succeeds.
func (h *MinioHost) DeleteAsset(ctx context.Context, publicID string) error {
	err := h.client.RemoveObject(ctx, h.bucket, publicID, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("%w: failed to delete image %s from bucket %s: %s", domain.ErrAssetHost, publicID, h.bucket, err.Error())
	}
	return nil
}
