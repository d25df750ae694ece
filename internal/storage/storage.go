// Package storage uploads maintenance file blobs to S3-compatible object
// storage and hands back the metadata the store persists.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"machinery-maintenance-backend/config"
)

// UploadedFile is the metadata returned after a successful upload. Clients
// pass it back verbatim when attaching files to a history record.
type UploadedFile struct {
	FileKey  string `json:"file_key"`
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// BlobStore defines the interface for the object storage backend.
type BlobStore interface {
	Upload(ctx context.Context, userID int64, fileName, mimeType string, size int64, r io.Reader) (*UploadedFile, error)
}

// minioStore implements BlobStore against a MinIO/S3 endpoint.
type minioStore struct {
	client *minio.Client
	cfg    *config.StorageConfig
}

// NewMinioStore connects to the configured endpoint and ensures the bucket
// exists.
func NewMinioStore(ctx context.Context, cfg *config.StorageConfig) (BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &minioStore{client: client, cfg: cfg}, nil
}

// Upload stores the blob under a per-user key with a random component so
// object names cannot be enumerated.
func (s *minioStore) Upload(ctx context.Context, userID int64, fileName, mimeType string, size int64, r io.Reader) (*UploadedFile, error) {
	key := objectKey(userID, fileName)

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	fileURL, err := s.retrievalURL(ctx, key)
	if err != nil {
		return nil, err
	}

	return &UploadedFile{
		FileKey:  key,
		FileURL:  fileURL,
		FileName: fileName,
		MimeType: mimeType,
		FileSize: size,
	}, nil
}

// retrievalURL prefers a stable public base URL when configured and falls
// back to a presigned GET.
func (s *minioStore) retrievalURL(ctx context.Context, key string) (string, error) {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key, nil
	}
	expiry := time.Duration(s.cfg.PresignExpiryMinutes) * time.Minute
	u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return u.String(), nil
}

func objectKey(userID int64, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("maintenance-files/%d/%s%s", userID, uuid.New().String(), ext)
}
