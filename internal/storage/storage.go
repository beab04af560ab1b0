// Package storage provides file storage for uploaded images.
package storage

import (
	"context"
	"io"

	"github.com/dukerupert/njord/internal/domain"
)

// Storage defines the interface for file storage operations.
// Implementations can use the local filesystem or any object store.
type Storage interface {
	// Put stores a file and returns its URL for retrieval.
	// The key should be a unique identifier (e.g., "products/uuid/image.jpg").
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Get retrieves a file by its key.
	// Returns an io.ReadCloser that must be closed by the caller.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by its key.
	// Returns nil if the file doesn't exist (idempotent).
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for accessing a stored file.
	URL(key string) string

	// Exists checks if a file exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

func errFileNotFound(key string) error {
	return domain.NotFound("storage.get", "file", key)
}
