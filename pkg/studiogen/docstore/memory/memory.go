// Package memory is an in-memory studiogen.DocumentStore for tests and
// local development.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/caravanpress/studio/pkg/studiogen"
)

// Asset is a stored binary asset with its attribution metadata.
type Asset struct {
	Data []byte
	Meta studiogen.AssetMetadata
}

// Store keeps documents and assets in maps.
type Store struct {
	mu        sync.RWMutex
	documents map[string]map[string]any
	assets    map[string]Asset

	// UploadErr, when set, makes asset uploads fail. Test hook.
	UploadErr error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		documents: make(map[string]map[string]any),
		assets:    make(map[string]Asset),
	}
}

var _ studiogen.DocumentStore = (*Store)(nil)

// Put seeds a document, for tests.
func (s *Store) Put(id string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[id] = fields
}

// Document returns a copy of a stored document's fields.
func (s *Store) Document(id string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out, true
}

// Asset returns a stored asset by id.
func (s *Store) Asset(id string) (Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[id]
	return a, ok
}

// Fetch supports only id lookup ("*[_id == $id][0]" style queries): it
// decodes the document whose id is in params["id"] into out.
func (s *Store) Fetch(_ context.Context, _ string, params map[string]any, out any) error {
	id, _ := params["id"].(string)
	s.mu.RLock()
	doc, ok := s.documents[id]
	s.mu.RUnlock()
	if !ok {
		return errors.New("document not found")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Patch starts a patch against the document with the given id.
func (s *Store) Patch(id string) studiogen.DocumentPatch {
	return &patch{store: s, id: id}
}

type patch struct {
	store        *Store
	id           string
	set          map[string]any
	setIfMissing map[string]any
}

func (p *patch) Set(fields map[string]any) studiogen.DocumentPatch {
	if p.set == nil {
		p.set = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		p.set[k] = v
	}
	return p
}

func (p *patch) SetIfMissing(fields map[string]any) studiogen.DocumentPatch {
	if p.setIfMissing == nil {
		p.setIfMissing = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		p.setIfMissing[k] = v
	}
	return p
}

func (p *patch) Commit(_ context.Context) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	doc, ok := p.store.documents[p.id]
	if !ok {
		doc = make(map[string]any)
		p.store.documents[p.id] = doc
	}
	for k, v := range p.setIfMissing {
		if _, exists := doc[k]; !exists {
			doc[k] = v
		}
	}
	for k, v := range p.set {
		doc[k] = v
	}
	return nil
}

// UploadAsset stores the bytes and returns a generated reference.
func (s *Store) UploadAsset(_ context.Context, kind string, r io.Reader, meta studiogen.AssetMetadata) (*studiogen.AssetRef, error) {
	if s.UploadErr != nil {
		return nil, s.UploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("%s-%s", kind, uuid.New())
	s.mu.Lock()
	s.assets[id] = Asset{Data: data, Meta: meta}
	s.mu.Unlock()

	return &studiogen.AssetRef{ID: id}, nil
}
