package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"shop-api/internal/domain"
)

type memoryStore struct {
	mu     sync.RWMutex
	tokens map[string]uuid.UUID
}

// NewMemory returns a process-local Store. Entries never expire; it is meant
// for tests and single-instance development setups.
func NewMemory() Store {
	return &memoryStore{tokens: make(map[string]uuid.UUID)}
}

func (s *memoryStore) CartToken(_ context.Context, sessionID string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[sessionID]
	if !ok {
		return uuid.Nil, domain.ErrNotFound
	}
	return token, nil
}

func (s *memoryStore) SetCartTokenIfAbsent(_ context.Context, sessionID string, token uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.tokens[sessionID]; ok {
		return existing, nil
	}
	s.tokens[sessionID] = token
	return token, nil
}

func (s *memoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sessionID)
	return nil
}
