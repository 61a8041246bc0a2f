// Package blobstore defines the port to the image storage service.
package blobstore

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no blob store is available. Callers fall
// back to inline base64 transport for images.
var ErrNotConfigured = errors.New("blob store not configured")

// Store uploads and deletes item images.
type Store interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}
