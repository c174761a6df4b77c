package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Download when no object exists under key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage defines the interface for blob storage operations.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Ping(ctx context.Context) error
}
