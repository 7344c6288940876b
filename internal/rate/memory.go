package rate

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// Memory is the in-process limiter. Expired windows are dropped lazily on
// every access; a background sweep additionally prunes idle keys so the map
// stays bounded without traffic.
type Memory struct {
	maxAttempts int
	window      time.Duration

	mu      sync.Mutex
	entries map[string]*window

	sweepStop chan struct{}
	closeOnce sync.Once
}

// NewMemory starts the sweep goroutine immediately. sweepInterval defaults
// to the window duration.
func NewMemory(maxAttempts int, windowDur, sweepInterval time.Duration) *Memory {
	if sweepInterval <= 0 {
		sweepInterval = windowDur
	}
	m := &Memory{
		maxAttempts: maxAttempts,
		window:      windowDur,
		entries:     make(map[string]*window),
		sweepStop:   make(chan struct{}),
	}
	go m.sweep(sweepInterval)
	return m
}

func (m *Memory) Check(_ context.Context, key string) error {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.live(key, now)
	if entry != nil && entry.count >= m.maxAttempts {
		return &RetryError{After: entry.resetAt.Sub(now)}
	}
	return nil
}

func (m *Memory) Record(_ context.Context, key string) error {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry := m.live(key, now); entry != nil {
		entry.count++
		return nil
	}
	m.entries[key] = &window{count: 1, resetAt: now.Add(m.window)}
	return nil
}

func (m *Memory) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) Remaining(_ context.Context, key string) (int, error) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.live(key, now)
	if entry == nil {
		return m.maxAttempts, nil
	}
	remaining := m.maxAttempts - entry.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Close stops the sweep and clears all windows. Idempotent.
func (m *Memory) Close() {
	m.closeOnce.Do(func() {
		close(m.sweepStop)
		m.mu.Lock()
		m.entries = make(map[string]*window)
		m.mu.Unlock()
	})
}

// live returns the key's window if it has not expired, deleting it
// otherwise. Caller holds the lock.
func (m *Memory) live(key string, now time.Time) *window {
	entry, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !now.Before(entry.resetAt) {
		delete(m.entries, key)
		return nil
	}
	return entry
}

func (m *Memory) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for key, entry := range m.entries {
				if !now.Before(entry.resetAt) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		case <-m.sweepStop:
			return
		}
	}
}

// size reports the live entry count; tests use it to observe the sweep.
func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
