package storage

import (
	"context"
	"errors"
)

// ErrUnavailable marks a storage backend that could not serve the read.
var ErrUnavailable = errors.New("blob storage unavailable")

// BlobStore is the blob collaborator documents are fetched from at ingest time.
type BlobStore interface {
	ReadText(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}
