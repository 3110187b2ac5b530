// Package revocation keeps track of access tokens that were logged out
// before their natural expiry.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Store records revoked token IDs (the JWT "jti" claim).
type Store interface {
	// Revoke marks jti as revoked for ttl. A non-positive ttl is a no-op
	// since the token has already expired.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryStore is a process-local Store used when Redis is not configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 || jti == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// Drop expired entries so the map only grows with live tokens.
	for id, until := range s.entries {
		if !now.Before(until) {
			delete(s.entries, id)
		}
	}
	s.entries[jti] = now.Add(ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	until, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	return s.now().Before(until), nil
}
