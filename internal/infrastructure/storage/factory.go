package storage

import (
	"context"
	"fmt"

	reservationapp "github.com/travel/backend/internal/application/reservation"
	"github.com/travel/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New builds the receipt storage selected by cfg.Driver. The S3 bucket is
// created when missing.
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (reservationapp.BlobStorage, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		s3Storage, err := NewS3BlobStorage(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Receipt storage ready", zap.String("driver", cfg.Driver), zap.String("bucket", cfg.Bucket))
		return s3Storage, nil
	case config.StorageDriverMemory, "":
		logger.Warn("Receipts are kept in memory and lost on restart")
		return NewMemoryBlobStorage(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
