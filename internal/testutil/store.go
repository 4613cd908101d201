package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// InMemoryStore is a mutex guarded map used as the backing store of the
// in-memory repositories
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

// Upsert adds or replaces the item stored under id
func (s *InMemoryStore[T]) Upsert(_ context.Context, id string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = item
}

func (s *InMemoryStore[T]) Get(_ context.Context, id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	return item, exists
}

// List returns every item ordered by cmp. Map order is random, so callers that
// need a stable order must pass cmp.
func (s *InMemoryStore[T]) List(_ context.Context, cmp func(a, b T) int) []T {
	s.mu.RLock()
	result := lo.Values(s.items)
	s.mu.RUnlock()

	if cmp != nil {
		slices.SortFunc(result, cmp)
	}
	return result
}

func (s *InMemoryStore[T]) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.items)
}
