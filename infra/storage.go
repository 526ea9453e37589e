package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/tnqbao/gau-cloudlet-service/config"
)

// StoredObject is one blob as reported by a bucket listing.
type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStoreGateway issues presigned URLs and manages blobs in the backing bucket.
type ObjectStoreGateway interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
	// StatObject reports whether key exists.
	StatObject(ctx context.Context, key string) (bool, error)
	ListObjects(ctx context.Context, prefix string) ([]StoredObject, error)
	Ping(ctx context.Context) error
}

func InitObjectStore(cfg *config.EnvConfig) ObjectStoreGateway {
	switch cfg.Storage.Driver {
	case config.StorageDriverMinio:
		return InitMinioClient(cfg)
	case config.StorageDriverS3:
		return InitS3Client(cfg)
	default:
		panic(fmt.Sprintf("Unsupported storage driver: %q", cfg.Storage.Driver))
	}
}
