package session

import (
	"context"
	"sync"
)

// MemoryStore keeps dialog stages in process memory. Stages are lost on
// restart, which matches how the bot behaves without Redis.
type MemoryStore struct {
	mu     sync.RWMutex
	stages map[int64]Stage
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{stages: make(map[int64]Stage)}
}

func (s *MemoryStore) Stage(_ context.Context, chatID int64) (Stage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.stages[chatID]; ok {
		return st, nil
	}
	return StageIdle, nil
}

func (s *MemoryStore) SetStage(_ context.Context, chatID int64, st Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stages[chatID] = st
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.stages, chatID)
	return nil
}
