// Package memory is an in-memory studiogen.AssetStore for tests.
package memory

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/caravanpress/studio/pkg/studiogen"
)

// Asset is a stored image with its metadata.
type Asset struct {
	Data []byte
	Meta studiogen.AssetMetadata
}

// Store keeps uploaded images in a map.
type Store struct {
	mu     sync.RWMutex
	assets map[string]Asset
}

// New creates an empty in-memory asset store.
func New() *Store {
	return &Store{assets: make(map[string]Asset)}
}

var _ studiogen.AssetStore = (*Store)(nil)

// UploadImage stores the bytes and returns a generated reference.
func (s *Store) UploadImage(_ context.Context, r io.Reader, meta studiogen.AssetMetadata) (*studiogen.AssetRef, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	id := "image-" + uuid.New().String()
	s.mu.Lock()
	s.assets[id] = Asset{Data: data, Meta: meta}
	s.mu.Unlock()

	return &studiogen.AssetRef{ID: id}, nil
}

// Asset returns a stored asset by id.
func (s *Store) Asset(id string) (Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[id]
	return a, ok
}

// Len returns the number of stored assets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}
