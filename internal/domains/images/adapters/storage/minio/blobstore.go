package minio

import (
	"bytes"
	"context"
	"errors"

	"github.com/minio/minio-go/v7"

	"github.com/ravengallery/gallery-api/internal/domains/images/ports"
)

var _ ports.BlobStore = (*BlobStore)(nil)

// BlobStore keeps image bytes in a single MinIO/S3 bucket.
type BlobStore struct {
	client *minio.Client
	bucket string
}

// NewBlobStore wires a bucket-scoped store. The caller owns the client.
func NewBlobStore(client *minio.Client, bucket string) (*BlobStore, error) {
	if client == nil {
		return nil, errors.New("minio client is required")
	}
	if bucket == "" {
		return nil, errors.New("bucket is required")
	}
	return &BlobStore{client: client, bucket: bucket}, nil
}

// Put uploads blob under its key.
func (s *BlobStore) Put(ctx context.Context, blob ports.Blob) error {
	opts := minio.PutObjectOptions{ContentType: blob.ContentType}
	_, err := s.client.PutObject(ctx, s.bucket, blob.Key, bytes.NewReader(blob.Content), int64(len(blob.Content)), opts)
	return err
}

// Delete removes the object under key. S3 reports success for missing keys.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
