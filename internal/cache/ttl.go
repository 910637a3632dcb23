package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a small TTL cache shared by the platform client (org context,
// describe results). Zero TTL means no expiry.
type Store struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{items: map[string]entry{}, now: time.Now}
}

func (s *Store) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !item.expiresAt.IsZero() && s.now().After(item.expiresAt) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

func (s *Store) Set(key string, value any, ttl time.Duration) {
	if s == nil || key == "" {
		return
	}
	expiry := time.Time{}
	if ttl > 0 {
		expiry = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = entry{value: value, expiresAt: expiry}
	s.mu.Unlock()
}

func (s *Store) Delete(key string) {
	if s == nil || key == "" {
		return
	}
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. Concurrent misses may compute more than once; last write wins.
func (s *Store) GetOrCompute(key string, ttl time.Duration, compute func() (any, error)) (any, error) {
	if value, ok := s.Get(key); ok {
		return value, nil
	}
	value, err := compute()
	if err != nil {
		return nil, err
	}
	s.Set(key, value, ttl)
	return value, nil
}
