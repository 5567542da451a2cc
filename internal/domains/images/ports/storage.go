package ports

import "context"

// Blob is an uploaded binary addressed by Key.
type Blob struct {
	Key         string
	ContentType string
	Content     []byte
}

// BlobStore keeps image bytes outside the metadata repository.
type BlobStore interface {
	Put(ctx context.Context, blob Blob) error
	Delete(ctx context.Context, key string) error
}
