package authgate

import (
	"hash/fnv"
	"sync"
)

// keyedLock serializes operations on the same account without blocking
// unrelated callers: keys hash onto a fixed set of stripes, so two
// concurrent failed logins for one email observe each other's
// failed-attempt update and the lock decision stays consistent.
type keyedLock struct {
	stripes []sync.Mutex
}

func newKeyedLock(stripes int) *keyedLock {
	if stripes <= 0 {
		stripes = 64
	}
	return &keyedLock{stripes: make([]sync.Mutex, stripes)}
}

func (l *keyedLock) stripe(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &l.stripes[h.Sum32()%uint32(len(l.stripes))]
}

func (l *keyedLock) lock(key string) func() {
	mu := l.stripe(key)
	mu.Lock()
	return mu.Unlock
}
