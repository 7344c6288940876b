package rate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLimited is the sentinel wrapped by every limit rejection.
	ErrLimited = errors.New("rate limited")
	// ErrUnavailable indicates the Redis backend could not be reached.
	ErrUnavailable = errors.New("rate limit backend unavailable")
)

// RetryError is the rejection returned by Check: it wraps [ErrLimited] and
// carries the time until the window resets.
type RetryError struct {
	After time.Duration
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.After)
}

func (e *RetryError) Unwrap() error { return ErrLimited }

// Limiter is the keyed fixed-window attempt counter.
type Limiter interface {
	// Check fails with a *RetryError when the key's current window is
	// exhausted. It never mutates state.
	Check(ctx context.Context, key string) error
	// Record counts an attempt, opening a fresh window if none is live.
	Record(ctx context.Context, key string) error
	// Reset drops the key's window entirely.
	Reset(ctx context.Context, key string) error
	// Remaining reports attempts left in the current window, clamped to
	// zero; a missing or expired window counts as full capacity.
	Remaining(ctx context.Context, key string) (int, error)
	// Close stops background work and clears state. Safe to call once at
	// shutdown; correctness never depends on it.
	Close()
}
