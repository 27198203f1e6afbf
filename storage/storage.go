// Package storage holds the object storage backends used for attachment
// files.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotExist = errors.New("object does not exist")

// ObjectStorage stores attachment files under slash-separated keys.
type ObjectStorage interface {
	// Store writes r under path and returns the stored key.
	Store(ctx context.Context, path string, r io.Reader) (string, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Download opens the object; ErrNotExist when it is missing.
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete reports whether an object was removed.
	Delete(ctx context.Context, path string) (bool, error)
	// URL is the public address of a stored key.
	URL(path string) string
}
