package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/ravengallery/gallery-api/internal/domains/images/ports"
)

var _ ports.BlobStore = (*BlobStore)(nil)

// BlobStore keeps uploaded bytes in process memory.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string]ports.Blob
}

// NewBlobStore constructs an empty in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: map[string]ports.Blob{}}
}

// Put stores a copy of blob under its key, replacing any previous object.
func (s *BlobStore) Put(_ context.Context, blob ports.Blob) error {
	if blob.Key == "" {
		return errors.New("blob key is required")
	}
	blob.Content = append([]byte{}, blob.Content...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[blob.Key] = blob
	return nil
}

// Blob returns a copy of the blob stored under key.
func (s *BlobStore) Blob(key string) (ports.Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return ports.Blob{}, false
	}
	blob.Content = append([]byte{}, blob.Content...)
	return blob, true
}

// Delete removes the blob under key. Deleting a missing key is not an error.
func (s *BlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Len reports how many blobs are stored.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
