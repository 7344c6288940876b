package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SecretBytes is the raw secret length: 160 bits, the RFC 4226 recommended
// minimum and what authenticator apps expect.
const SecretBytes = 20

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// Config tunes code generation. The zero value is not usable; call
// [Config.WithDefaults] or fill every field.
type Config struct {
	Issuer string
	Digits int
	Period int
	// Skew is the number of time steps accepted either side of now.
	Skew int
}

// WithDefaults fills unset fields with the interop defaults (6 digits, 30 s
// period, ±1 step skew).
func (c Config) WithDefaults() Config {
	if c.Digits <= 0 {
		c.Digits = 6
	}
	if c.Period <= 0 {
		c.Period = 30
	}
	if c.Skew < 0 {
		c.Skew = 0
	}
	return c
}

// GenerateSecret returns a fresh cryptographically random secret, base32
// encoded without padding.
func GenerateSecret() (string, error) {
	raw := make([]byte, SecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw), nil
}

// ProvisionURI builds the otpauth://totp/ enrollment URI for the given
// account label. Parameter order is fixed (secret, issuer, algorithm,
// digits, period) for compatibility with authenticator apps.
func (c Config) ProvisionURI(secret, account string) string {
	issuer := escapeComponent(c.Issuer)
	label := escapeComponent(account)
	return "otpauth://totp/" + issuer + ":" + label +
		"?secret=" + secret +
		"&issuer=" + issuer +
		"&algorithm=SHA1" +
		"&digits=" + strconv.Itoa(c.Digits) +
		"&period=" + strconv.Itoa(c.Period)
}

// escapeComponent percent-encodes every byte outside A-Z, a-z, 0-9 and
// -_.!~*'(), so reserved characters like @ and : in account labels come
// out as %40 and %3A.
func escapeComponent(s string) string {
	const unreserved = "-_.!~*'()"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte(unreserved, c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// Code computes the TOTP code for the time step containing t.
func (c Config) Code(secret string, t time.Time) (string, error) {
	key := DecodeSecret(secret)
	if len(key) == 0 {
		return "", errors.New("empty totp secret")
	}
	return hotp(key, t.Unix()/int64(c.Period), c.Digits), nil
}

// Verify reports whether code is valid for the secret at time now, accepting
// c.Skew steps of clock drift either side. A code that is not exactly
// c.Digits ASCII digits is rejected before any computation. Matching uses a
// constant-time comparison.
func (c Config) Verify(secret, code string, now time.Time) bool {
	if !isDigits(code, c.Digits) {
		return false
	}
	key := DecodeSecret(secret)
	if len(key) == 0 {
		return false
	}

	base := now.Unix() / int64(c.Period)
	for step := -c.Skew; step <= c.Skew; step++ {
		counter := base + int64(step)
		if counter < 0 {
			continue
		}
		expected := hotp(key, counter, c.Digits)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

// hotp is the RFC 4226 HMAC-SHA1 derivation with dynamic truncation.
func hotp(key []byte, counter int64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < digits; i++ {
		mod *= 10
	}
	return fmt.Sprintf("%0*d", digits, bin%mod)
}

// DecodeSecret decodes an unpadded base32 secret. Invalid characters and
// trailing padding are ignored rather than rejected, matching how secrets
// copied out of authenticator apps (spaces, lowercase, stray '=') arrive.
func DecodeSecret(encoded string) []byte {
	cleaned := strings.ToUpper(strings.TrimRight(encoded, "="))

	var out []byte
	var value, bits int
	for i := 0; i < len(cleaned); i++ {
		idx := strings.IndexByte(base32Alphabet, cleaned[i])
		if idx < 0 {
			continue
		}
		value = value<<5 | idx
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(value>>bits))
		}
	}
	return out
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
