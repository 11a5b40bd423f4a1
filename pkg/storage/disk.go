// Package storage stores uploaded files on a named disk.
//
// Two drivers are available:
//   - "local": a directory served under STORAGE_URL (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2)
//
//	storage.Connect(ctx)
//	err := storage.Put(ctx, "products/1f2e.jpg", file, "image/jpeg")
//	url := storage.URL("products/1f2e.jpg")
package storage

import (
	"context"
	"io"
)

// Disk is a file store.
type Disk interface {
	// Put writes r to path, replacing any existing file.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Open returns the file content. Caller must close it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
