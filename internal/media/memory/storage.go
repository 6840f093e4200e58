package memory

import (
	"context"
	"sync"
)

type Storage struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewStorage() *Storage {
	return &Storage{files: make(map[string][]byte)}
}

func (s *Storage) Save(ctx context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.files[name] = stored
	return name, nil
}

// Len reports how many files have been stored.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
