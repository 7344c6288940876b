// Package jwt is the token engine: it issues and verifies the dual-purpose
// access/refresh token pairs used by the authgate engine.
//
// Tokens are self-contained HS256 credentials carrying subject, kind
// ("access" or "refresh"), issuer and lifetime; access tokens additionally
// carry email and roles, refresh tokens a unique jti. Access and refresh
// tokens are signed with distinct secrets so a refresh-secret compromise
// cannot mint access tokens. Verification is stateless except for the
// revocation-set membership check on refresh tokens.
//
// # What this package must NOT do
//
//   - Track which tokens belong to which user; the engine owns that index.
//   - Accept a token whose kind does not match the verification call.
package jwt
