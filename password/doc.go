// Package password provides the slow adaptive hashing primitives consumed by
// the engine through its Hasher interface: Argon2id (PHC string format) and
// bcrypt. Both produce a different hash for the same input on every call via
// an internal random salt.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length,
// character classes) is enforced by the engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive
//     hashes.
//   - Log plaintext passwords or hash parameters at runtime.
package password
