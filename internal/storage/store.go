package storage

import (
	"context"
	"io"
)

// ContentStore is a write-once byte sink keyed by a caller-supplied path.
type ContentStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
