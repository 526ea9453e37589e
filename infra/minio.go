package infra

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tnqbao/gau-cloudlet-service/config"
)

type MinioClient struct {
	Admin    *madmin.AdminClient
	Client   *minio.Client
	Endpoint string
	Bucket   string
	Region   string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	m, err := NewMinioClient(cfg)
	if err != nil {
		panic(err.Error())
	}

	if err := m.EnsureBucket(context.Background()); err != nil {
		log.Printf("Warning: failed to ensure bucket %q: %v", m.Bucket, err)
	}

	return m
}

func NewMinioClient(cfg *config.EnvConfig) (*MinioClient, error) {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		return nil, fmt.Errorf("MinIO endpoint is not configured")
	}

	rootUser := cfg.Minio.RootUser
	if rootUser == "" {
		return nil, fmt.Errorf("MinIO root user is not configured")
	}

	rootPassword := cfg.Minio.RootPassword
	if rootPassword == "" {
		return nil, fmt.Errorf("MinIO root password is not configured")
	}

	madminClient, err := madmin.New(endpoint, rootUser, rootPassword, cfg.Minio.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO admin client: %w", err)
	}

	// A fixed region keeps presigning offline; otherwise minio-go looks up the bucket location first.
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
		Secure: cfg.Minio.UseSSL,
		Region: cfg.S3.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	return &MinioClient{
		Admin:    madminClient,
		Client:   minioClient,
		Endpoint: endpoint,
		Bucket:   cfg.Storage.Bucket,
		Region:   cfg.S3.Region,
	}, nil
}

// PresignPut signs a PUT bound to contentType; the uploader must send the same Content-Type header.
func (m *MinioClient) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}

	headers := http.Header{}
	if contentType != "" {
		headers.Set("Content-Type", contentType)
	}

	u, err := m.Client.PresignHeader(ctx, http.MethodPut, m.Bucket, key, expiry, nil, headers)
	if err != nil {
		return "", fmt.Errorf("failed to presign put: %w", err)
	}

	return u.String(), nil
}

func (m *MinioClient) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}

	u, err := m.Client.PresignedGetObject(ctx, m.Bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign get: %w", err)
	}

	return u.String(), nil
}

func (m *MinioClient) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	err := m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

func (m *MinioClient) StatObject(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key cannot be empty")
	}

	_, err := m.Client.StatObject(ctx, m.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}

	return true, nil
}

func (m *MinioClient) ListObjects(ctx context.Context, prefix string) ([]StoredObject, error) {
	objectsCh := m.Client.ListObjects(ctx, m.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var objects []StoredObject
	for object := range objectsCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		objects = append(objects, StoredObject{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}

	return objects, nil
}

// Ping checks the bucket and, through the admin API, the server itself.
func (m *MinioClient) Ping(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", m.Bucket)
	}

	if m.Admin != nil {
		if _, err := m.Admin.ServerInfo(ctx); err != nil {
			return fmt.Errorf("failed to get MinIO server info: %w", err)
		}
	}

	return nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{Region: m.Region})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}
