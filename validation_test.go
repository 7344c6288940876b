package authgate

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"USER@EXAMPLE.COM":     "user@example.com",
		"  padded@example.io ": "padded@example.io",
		"already@lower.dev":    "already@lower.dev",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last+tag@sub.example.co.uk",
		"x_y-z%w@example.io",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@host",
		"user@@example.com",
		"a@" + strings.Repeat("x", 250) + ".com",
	}
	for _, email := range invalid {
		err := ValidateEmail(email)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("ValidateEmail(%q) = %v, want ErrValidation", email, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	policy := DefaultConfig().Password

	if err := ValidatePassword("SecureP@ss1!", policy); err != nil {
		t.Fatalf("strong password rejected: %v", err)
	}

	err := ValidatePassword("short", policy)
	if !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("not a domain error: %v", err)
	}
	// "short" misses length, uppercase, numbers and specials at once.
	if len(domainErr.Requirements) != 4 {
		t.Errorf("Requirements = %v, want 4 entries", domainErr.Requirements)
	}
	if !strings.Contains(err.Error(), "at least 8 characters") {
		t.Errorf("message %q does not name the length rule", err.Error())
	}
}

func TestValidatePasswordEmptyIsValidationError(t *testing.T) {
	err := ValidatePassword("", DefaultConfig().Password)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidatePasswordRelaxedPolicy(t *testing.T) {
	policy := PasswordConfig{MinLength: 4}
	if err := ValidatePassword("abcd", policy); err != nil {
		t.Fatalf("relaxed policy rejected abcd: %v", err)
	}
}
