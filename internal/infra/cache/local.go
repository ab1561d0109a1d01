package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"availability-engine/internal/pkg/clock"
)

type localItem struct {
	value     []byte
	expiresAt time.Time
}

// LocalStore is the in-process fallback tier. Expired items are dropped
// lazily on read and by Purge.
type LocalStore struct {
	mu    sync.RWMutex
	items map[string]localItem
	clock clock.Clock
}

func NewLocalStore(clk clock.Clock) *LocalStore {
	return &LocalStore{
		items: make(map[string]localItem),
		clock: clk,
	}
}

func (s *LocalStore) Get(_ context.Context, key string) ([]byte, time.Time, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil, time.Time{}, ErrMiss
	}
	if !s.clock.Now().Before(item.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.items[key]; ok && cur.expiresAt.Equal(item.expiresAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, time.Time{}, ErrMiss
	}
	return item.value, item.expiresAt, nil
}

func (s *LocalStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = localItem{value: value, expiresAt: s.clock.Now().Add(ttl)}
	return nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

func (s *LocalStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
	return nil
}

// Purge removes every expired item and returns how many were dropped.
func (s *LocalStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	n := 0
	for key, item := range s.items {
		if !now.Before(item.expiresAt) {
			delete(s.items, key)
			n++
		}
	}
	return n
}

func (s *LocalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
