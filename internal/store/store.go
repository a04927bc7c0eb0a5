// Package store provides a small in-memory JSON document collection used by
// the API handlers. Documents are opaque payloads to the caching layer.
package store

import (
	"encoding/json"
	"sort"
	"strconv"
	"sync"
)

// Document is a stored JSON payload with its assigned ID.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Store holds one collection of documents. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	seq  int64
	docs map[string]json.RawMessage
}

// New creates an empty store.
func New() *Store {
	return &Store{docs: make(map[string]json.RawMessage)}
}

// List returns all documents ordered by ID.
func (s *Store) List() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0, len(s.docs))
	for id, data := range s.docs {
		out = append(out, Document{ID: id, Data: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the document with the given ID.
func (s *Store) Get(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[id]
	if !ok {
		return Document{}, false
	}
	return Document{ID: id, Data: data}, true
}

// Create stores a new document and returns it with its assigned ID.
func (s *Store) Create(data json.RawMessage) Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := strconv.FormatInt(s.seq, 10)
	s.docs[id] = data
	return Document{ID: id, Data: data}
}

// Update replaces the document with the given ID. Returns false when the
// document does not exist.
func (s *Store) Update(id string, data json.RawMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return false
	}
	s.docs[id] = data
	return true
}

// Delete removes the document with the given ID. Returns false when the
// document does not exist.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	return true
}
