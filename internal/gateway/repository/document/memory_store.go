package document

import (
	"context"
	"fmt"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Document),
	}
}

func (s *MemoryStore) Put(_ context.Context, doc Document) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	id, err := normalizeID(doc.ID)
	if err != nil {
		return err
	}
	doc.ID = id
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = doc
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Document, error) {
	if s == nil {
		return Document{}, fmt.Errorf("store is nil")
	}
	id, err := normalizeID(id)
	if err != nil {
		return Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}
