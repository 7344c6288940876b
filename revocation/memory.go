package revocation

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process revocation store: a mutex-guarded map from jti to
// token expiry. Expired entries are pruned lazily on writes so the map stays
// bounded by the number of live refresh tokens ever revoked.
type Memory struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{revoked: make(map[string]time.Time)}
}

// Revoke marks the jti revoked until expiresAt. Revoking an already revoked
// jti is a no-op beyond possibly extending its retention.
func (m *Memory) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	now := time.Now()
	if !expiresAt.IsZero() && expiresAt.Before(now) {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune(now)
	m.revoked[tokenID] = expiresAt
	return nil
}

// IsRevoked reports whether the jti is in the set and still relevant.
func (m *Memory) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	expiresAt, ok := m.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !expiresAt.IsZero() && expiresAt.Before(time.Now()) {
		return false, nil
	}
	return true, nil
}

// Len reports the current entry count, expired entries included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.revoked)
}

// prune removes entries whose tokens have expired. Caller holds the write
// lock.
func (m *Memory) prune(now time.Time) {
	for id, expiresAt := range m.revoked {
		if !expiresAt.IsZero() && expiresAt.Before(now) {
			delete(m.revoked, id)
		}
	}
}
