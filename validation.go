package authgate

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// All store lookups and rate-limit keys use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks basic address syntax on an already normalized email.
// Failures are [CodeValidation] errors naming the "email" field.
func ValidateEmail(email string) error {
	if email == "" {
		return validationError("email is required", "email")
	}
	if len(email) > 254 {
		return validationError("email address is too long", "email")
	}
	if !emailPattern.MatchString(email) {
		return validationError("invalid email format", "email")
	}
	return nil
}

// ValidatePassword checks the composition policy and reports every unmet
// requirement at once through [Error.Requirements].
func ValidatePassword(password string, policy PasswordConfig) error {
	if password == "" {
		return validationError("password is required", "password")
	}

	var failures []string
	if len(password) < policy.MinLength {
		failures = append(failures, fmt.Sprintf("at least %d characters", policy.MinLength))
	}
	if policy.RequireUppercase && !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		failures = append(failures, "at least one uppercase letter")
	}
	if policy.RequireLowercase && !strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		failures = append(failures, "at least one lowercase letter")
	}
	if policy.RequireNumbers && !strings.ContainsAny(password, "0123456789") {
		failures = append(failures, "at least one number")
	}
	if policy.RequireSpecialChars && !strings.ContainsAny(password, specialChars) {
		failures = append(failures, "at least one special character")
	}

	if len(failures) > 0 {
		return passwordPolicyError(failures)
	}
	return nil
}
