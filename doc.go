// Package authgate is a transport-independent authentication and session core:
// it issues and verifies signed access/refresh token pairs, enforces TOTP
// multi-factor authentication, throttles login attempts, and drives an
// account-lockout state machine on top of a pluggable credential store.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Engine], [Builder], [Config],
// the [Error] taxonomy, and value types ([AuthResult], [TokenPair],
// [PublicUser], ...). Leaf components live in their own packages: jwt (token
// engine), totp (MFA engine), password (hashers), revocation (revoked-token
// stores), store (in-memory credential store). Rate limiting lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Speak HTTP or RPC. Transport layers call the Engine; authgate only hints
//     at status codes through [Error.Status].
//   - Persist anything itself. All durable user state goes through the
//     [UserStore] the caller injects.
//   - Retry internally. Every operation surfaces its error synchronously.
package authgate
