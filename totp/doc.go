// Package totp implements RFC 4226/6238 one-time passwords for MFA
// enrollment and verification: 160-bit secret generation, unpadded base32
// encoding with a lenient decoder, HMAC-SHA1 code derivation, and
// otpauth://totp/ provisioning URIs compatible with standard authenticator
// apps.
//
// # What this package must NOT do
//
//   - Store secrets or track replay state; that is the caller's record.
//   - Log or otherwise emit secret material.
package totp
