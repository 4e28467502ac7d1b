package repository

import (
	"context"
	"sort"
	"sync"

	"techcatalog/internal/domain"
)

// MemoryStore — потокобезопасная in-memory реализация DocumentStore.
// Используется в тестах и как dev-бэкенд без Postgres.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]Fields // collection -> id -> fields
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]Fields)}
}

func cloneFields(src Fields) Fields {
	if src == nil {
		return nil
	}
	out := make(Fields, len(src))
	for k, v := range src {
		switch vv := v.(type) {
		case []string:
			out[k] = append([]string(nil), vv...)
		case []any:
			out[k] = append([]any(nil), vv...)
		default:
			out[k] = v
		}
	}
	return out
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.data[collection][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneFields(fields), nil
}

func (s *MemoryStore) Put(_ context.Context, collection, id string, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[collection] == nil {
		s.data[collection] = make(map[string]Fields)
	}
	s.data[collection][id] = cloneFields(fields)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, partial Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.data[collection][id]
	if !ok {
		return domain.ErrNotFound
	}
	merged := cloneFields(existing)
	for k, v := range partial {
		if v == DeleteField {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	s.data[collection][id] = cloneFields(merged)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[collection], id)
	return nil
}

func (s *MemoryStore) Scan(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data[collection]))
	for id := range s.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id, Fields: cloneFields(s.data[collection][id])})
	}
	return docs, nil
}
