/*
Package storage stores user avatars in S3-compatible object storage.

Browsers upload directly with presigned PUT URLs; the server only signs, verifies
and deletes objects and maps object keys to public asset URLs.
*/
package storage

import (
	"context"
	"strings"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// AssetBaseURL is the public origin objects are served from.
	AssetBaseURL string
}

// ObjectInfo is the metadata of a stored object.
type ObjectInfo struct {
	ContentType   string
	ContentLength int64
}

// StorageService defines the public interface for the file storage service.
type StorageService interface {
	// PresignUpload generates a pre-signed URL for uploading a file.
	PresignUpload(ctx context.Context, key string, mimeType string, fileSize int64, duration time.Duration) (string, error)

	// Delete removes the file specified by the given key.
	Delete(ctx context.Context, key string) error

	// Stat returns the object's metadata, or ErrObjectNotFound.
	Stat(ctx context.Context, key string) (ObjectInfo, error)

	// PublicURL maps a key to the URL browsers load it from.
	PublicURL(key string) string

	// KeyFromURL is the inverse of PublicURL. It reports false for foreign URLs.
	KeyFromURL(rawURL string) (string, bool)
}

// NewStorageService returns the S3-compatible implementation.
func NewStorageService(cfg ServiceConfig) (StorageService, error) {
	return newS3Client(cfg)
}

// assetURLs implements the key/URL mapping shared by implementations.
type assetURLs struct {
	base string
}

func (a assetURLs) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return a.base + "/" + strings.TrimLeft(key, "/")
}

func (a assetURLs) KeyFromURL(rawURL string) (string, bool) {
	prefix := a.base + "/"
	if a.base == "" || !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}

	key := strings.TrimPrefix(rawURL, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
