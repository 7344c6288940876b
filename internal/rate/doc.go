// Package rate implements the keyed fixed-window attempt limiter behind
// login throttling: one window per key, reset wholesale when it elapses,
// never rolling.
//
// Two implementations share the [Limiter] contract: [Memory] (per-process,
// lazy expiry on every access plus a periodic background sweep) and [Redis]
// (INCR + EXPIRE counters shared across processes).
//
// # Window semantics
//
// Record creates a fresh window (count=1, reset=now+window) when none exists
// or the prior one expired, and increments otherwise. Check never mutates.
// Correctness must never depend on sweep timing; the sweep only bounds
// memory.
//
// # What this package must NOT do
//
//   - Implement lockout policy (that is the engine's account state machine).
//   - Be imported outside the authgate module.
package rate
