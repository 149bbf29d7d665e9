// Package objstore talks to the S3-compatible object storage backend.
// The server never proxies file bytes; it hands out presigned URLs and the
// client uploads/downloads directly against storage.
package objstore

import (
	"context"
	"time"
)

// Store is the object-storage surface the services depend on.
type Store interface {
	// SignedUploadURL returns a presigned PUT URL for key.
	SignedUploadURL(ctx context.Context, key string) (string, error)

	// SignedDownloadURL returns a presigned GET URL for key, valid for ttl.
	// displayName sets the download filename via content disposition.
	SignedDownloadURL(ctx context.Context, key string, ttl time.Duration, displayName string) (string, error)

	// Remove deletes the objects at the given keys.
	Remove(ctx context.Context, keys []string) error
}
