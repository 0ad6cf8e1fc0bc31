// Package storage keeps payment proof files on the local filesystem or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Skotchmaster/kaii_store/internal/config"
)

type Disk interface {
	// Put writes r under name, replacing any existing object.
	Put(ctx context.Context, name string, r io.Reader) error
	// URL returns the public location recorded on the order.
	URL(name string) string
	// Delete removes name. Missing objects are not an error.
	Delete(ctx context.Context, name string) error
}

func New(ctx context.Context, cfg config.Config) (Disk, error) {
	switch cfg.StorageDriver {
	case config.StorageLocal, "":
		return NewLocal(cfg.UploadDir, LocalURLPrefix)
	case config.StorageS3:
		return NewS3(ctx, S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		})
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
	}
}
