// Package memory provides an in-memory ContentStore used by tests and
// by the local "memory" backend. Version tokens are monotonic counters
// rendered as strings; like the real store's tokens they carry no
// ordering semantics for callers, only equality.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

type entry struct {
	data    []byte
	version int
}

// ContentStore is an in-memory implementation of driven.ContentStore.
// It keeps a single namespace: the ref argument to Get is ignored, so
// reference probing degenerates to a single lookup.
type ContentStore struct {
	mu   sync.Mutex
	docs map[string]entry
}

// NewContentStore creates an empty in-memory content store.
func NewContentStore() *ContentStore {
	return &ContentStore{docs: make(map[string]entry)}
}

// Get fetches the document at key. The ref is ignored.
func (s *ContentStore) Get(_ context.Context, key, _ string) (*driven.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return &driven.Document{Bytes: data, Version: strconv.Itoa(e.version)}, nil
}

// PutIfMatch replaces the document if version matches the current token.
func (s *ContentStore) PutIfMatch(_ context.Context, key string, data []byte, version, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.docs[key]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	if strconv.Itoa(e.version) != version {
		return fmt.Errorf("%w: %s at %d, got %s", domain.ErrVersionMismatch, key, e.version, version)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.docs[key] = entry{data: stored, version: e.version + 1}
	return nil
}

// Create writes a document that must not yet exist.
func (s *ContentStore) Create(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[key]; ok {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, key)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.docs[key] = entry{data: stored, version: 1}
	return nil
}

// Len returns the number of stored documents. Useful for tests.
func (s *ContentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
