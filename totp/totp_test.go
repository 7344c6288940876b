package totp

import (
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{Issuer: "authgate", Digits: 6, Period: 30, Skew: 1}
}

// RFC 6238 Appendix B vectors (SHA-1), truncated to 6 digits.
func TestRFC6238Vectors(t *testing.T) {
	secret := "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ" // "12345678901234567890"
	cfg := Config{Digits: 6, Period: 30}

	cases := []struct {
		unix int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
		{20000000000, "353130"},
	}

	for _, tc := range cases {
		got, err := cfg.Code(secret, time.Unix(tc.unix, 0))
		if err != nil {
			t.Fatalf("Code at %d failed: %v", tc.unix, err)
		}
		if got != tc.want {
			t.Errorf("Code at %d = %s, want %s", tc.unix, got, tc.want)
		}
	}
}

func TestGenerateSecretShape(t *testing.T) {
	secret, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}
	// 160 bits in 5-bit groups, no padding.
	if len(secret) != 32 {
		t.Fatalf("expected 32-character secret, got %d", len(secret))
	}
	if strings.ContainsRune(secret, '=') {
		t.Fatal("secret must not carry padding")
	}
	for _, r := range secret {
		if !strings.ContainsRune(base32Alphabet, r) {
			t.Fatalf("character %q outside base32 alphabet", r)
		}
	}
	if raw := DecodeSecret(secret); len(raw) != SecretBytes {
		t.Fatalf("decoded secret is %d bytes, want %d", len(raw), SecretBytes)
	}
}

func TestVerifyCurrentAndSkewedCodes(t *testing.T) {
	cfg := testConfig()
	secret, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}

	now := time.Unix(1700000015, 0)
	for _, offset := range []time.Duration{0, -30 * time.Second, 30 * time.Second} {
		code, err := cfg.Code(secret, now.Add(offset))
		if err != nil {
			t.Fatalf("Code failed: %v", err)
		}
		if !cfg.Verify(secret, code, now) {
			t.Errorf("code with offset %v rejected", offset)
		}
	}

	outside, err := cfg.Code(secret, now.Add(2*30*time.Second))
	if err != nil {
		t.Fatalf("Code failed: %v", err)
	}
	current, _ := cfg.Code(secret, now)
	if outside != current && cfg.Verify(secret, outside, now) {
		t.Error("code two steps ahead accepted")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	a, _ := GenerateSecret()
	b, _ := GenerateSecret()

	now := time.Now()
	code, err := cfg.Code(a, now)
	if err != nil {
		t.Fatalf("Code failed: %v", err)
	}
	other, _ := cfg.Code(b, now)
	if code != other && cfg.Verify(b, code, now) {
		t.Error("code from a different secret accepted")
	}
}

func TestVerifyRejectsMalformedCodes(t *testing.T) {
	cfg := testConfig()
	secret, _ := GenerateSecret()
	now := time.Now()

	for _, code := range []string{"", "12345", "1234567", "12a456", "12 456", "½23456"} {
		if cfg.Verify(secret, code, now) {
			t.Errorf("malformed code %q accepted", code)
		}
	}
}

func TestProvisionURIFormat(t *testing.T) {
	cfg := testConfig()
	cfg.Issuer = "My Service"
	secret := "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

	uri := cfg.ProvisionURI(secret, "user@example.com")
	want := "otpauth://totp/My%20Service:user%40example.com" +
		"?secret=" + secret +
		"&issuer=My%20Service" +
		"&algorithm=SHA1&digits=6&period=30"
	if uri != want {
		t.Fatalf("uri mismatch:\n got %s\nwant %s", uri, want)
	}
}

func TestProvisionURIEscapesReservedBytes(t *testing.T) {
	cfg := testConfig()
	cfg.Issuer = "Acme:Corp"
	secret := "GEZDGNBVGY3TQOJQ"

	uri := cfg.ProvisionURI(secret, "first.last+tag@example.com")
	if !strings.Contains(uri, "otpauth://totp/Acme%3ACorp:first.last%2Btag%40example.com?") {
		t.Fatalf("reserved bytes not escaped: %s", uri)
	}
	if !strings.Contains(uri, "&issuer=Acme%3ACorp&") {
		t.Fatalf("issuer parameter not escaped: %s", uri)
	}
}

func TestDecodeSecretLenient(t *testing.T) {
	strict := DecodeSecret("GEZDGNBVGY3TQOJQ")
	for _, variant := range []string{
		"gezdgnbvgy3tqojq",
		"GEZD GNBV GY3T QOJQ",
		"GEZDGNBVGY3TQOJQ====",
		"GEZD-GNBV-GY3T-QOJQ",
	} {
		got := DecodeSecret(variant)
		if string(got) != string(strict) {
			t.Errorf("DecodeSecret(%q) diverged from strict form", variant)
		}
	}
	if string(strict) != "1234567890" {
		t.Fatalf("decoded %q, want the RFC test key prefix", strict)
	}
}
