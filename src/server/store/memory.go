package store

import (
	"context"
	"encoding/json"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]json.RawMessage),
	}
}

func (s *MemoryStore) Load(_ context.Context, collection string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDocs(s.collections[collection]), nil
}

func (s *MemoryStore) Save(_ context.Context, collection string, docs map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = cloneDocs(docs)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func cloneDocs(docs map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(docs))
	for k, v := range docs {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
