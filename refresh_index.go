package authgate

import (
	"sync"
	"time"
)

// refreshIndex is the user → live refresh-jti multimap behind "log out
// everywhere". It is a back-reference for bulk revocation, not the owner of
// token lifetime: tokens stay independently verifiable even if this index is
// lost. Entries are created lazily on first issuance and removed when their
// set drains; the index lives only in this process and is never persisted.
type refreshIndex struct {
	mu    sync.Mutex
	users map[string]map[string]time.Time
}

func newRefreshIndex() *refreshIndex {
	return &refreshIndex{users: make(map[string]map[string]time.Time)}
}

func (idx *refreshIndex) track(userID, tokenID string, expiresAt time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	tokens, ok := idx.users[userID]
	if !ok {
		tokens = make(map[string]time.Time)
		idx.users[userID] = tokens
	}
	tokens[tokenID] = expiresAt
}

func (idx *refreshIndex) untrack(userID, tokenID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	tokens, ok := idx.users[userID]
	if !ok {
		return
	}
	delete(tokens, tokenID)
	if len(tokens) == 0 {
		delete(idx.users, userID)
	}
}

// drain removes and returns every tracked token for the user.
func (idx *refreshIndex) drain(userID string) map[string]time.Time {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	tokens := idx.users[userID]
	delete(idx.users, userID)
	return tokens
}

func (idx *refreshIndex) count(userID string) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.users[userID])
}
