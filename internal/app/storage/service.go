package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the settings required to reach the object storage
// backend.
type ServiceConfig struct {
	BucketName      string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// MediaStorage is the interface the media handlers depend on. Chat media and
// profile pictures are uploaded by clients directly against presigned URLs;
// the server never proxies file bytes.
type MediaStorage interface {
	// PresignUpload generates a presigned URL for uploading a file.
	PresignUpload(ctx context.Context, key, mimeType string, fileSize int64, duration time.Duration) (string, error)

	// PresignDownload generates a presigned URL for downloading a file.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the file stored under key.
	Delete(ctx context.Context, key string) error
}

// NewMediaStorage builds the S3-compatible implementation of MediaStorage.
func NewMediaStorage(cfg ServiceConfig) (MediaStorage, error) {
	return newS3Client(cfg)
}
