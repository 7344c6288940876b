// Package revocation provides the revoked-refresh-token stores consumed by
// the jwt token engine: an in-process [Memory] store for single-node
// deployments and a [Redis] store for sharing the set across processes.
//
// Both stores are keyed by jti and bound by token expiry: an entry whose
// token has expired no longer matters, so it may be pruned at any time.
//
// # What this package must NOT do
//
//   - Decide which tokens to revoke; callers pass jtis.
//   - Guarantee cross-node consistency beyond what the shared Redis set
//     itself provides.
package revocation
