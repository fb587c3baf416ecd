// Package storage abstracts the S3-compatible object store that holds
// comment and client-file attachments. The engine never moves bytes itself:
// callers get a presigned upload URL, push the object directly, and hand the
// resulting public URL back to the annotation subsystem.
package storage

import (
	"context"
	"time"
)

// Storage is the object storage collaborator interface.
type Storage interface {
	// PresignPut returns a time-limited URL the caller can PUT the object
	// bytes to, without credentials.
	PresignPut(ctx context.Context, key string, contentType string, expiry time.Duration) (string, error)

	// PresignGet returns a time-limited download URL for an existing object.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)

	// PublicURL returns the stable, non-expiring URL of an object. The
	// bucket is expected to allow public reads for attachment objects.
	PublicURL(key string) string

	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// UploadTarget is what a caller needs to perform an attachment upload: the
// object key, where to PUT the bytes, and the URL the object will be served
// from afterwards.
type UploadTarget struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
