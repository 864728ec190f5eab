package memory

import (
	"context"
	"sync"
)

// KV is an in-memory progress backend. Values are copied on the way in and out.
type KV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewKV() *KV {
	return &KV{
		values: make(map[string][]byte),
	}
}

func (s *KV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *KV) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}
