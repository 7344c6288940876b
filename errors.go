package authgate

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode is the stable machine-readable identifier carried by every
// [Error]. Transport layers should map on codes, not messages.
type ErrorCode string

const (
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	CodeUserAlreadyExists  ErrorCode = "USER_ALREADY_EXISTS"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeRateLimitExceeded  ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeAccountLocked      ErrorCode = "ACCOUNT_LOCKED"
	CodeMFARequired        ErrorCode = "MFA_REQUIRED"
	CodeInvalidMFAToken    ErrorCode = "INVALID_MFA_TOKEN"
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodePasswordPolicy     ErrorCode = "PASSWORD_POLICY_ERROR"
)

// Error is the taxonomy type returned by every Engine operation that fails
// for a domain reason. Status is an HTTP-style hint for transport layers;
// the optional payload fields (Field, Requirements, RetryAfter) are populated
// only by the codes that define them.
//
// Two Errors match under errors.Is when their codes are equal, so callers
// compare against the exported sentinels:
//
//	if errors.Is(err, authgate.ErrAccountLocked) { ... }
type Error struct {
	Code    ErrorCode
	Status  int
	Message string

	// Field names the offending input for CodeValidation.
	Field string
	// Requirements lists unmet password rules for CodePasswordPolicy.
	Requirements []string
	// RetryAfter is set for CodeRateLimitExceeded.
	RetryAfter time.Duration
}

func (e *Error) Error() string { return e.Message }

// Is matches by code so derived errors (with payloads or custom messages)
// compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	// ErrInvalidCredentials is returned for both "no such user" and "wrong
	// password" so login failures never reveal which occurred.
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Status: 401, Message: "invalid email or password"}
	ErrUserNotFound       = &Error{Code: CodeUserNotFound, Status: 404, Message: "user not found"}
	ErrUserAlreadyExists  = &Error{Code: CodeUserAlreadyExists, Status: 409, Message: "a user with this email already exists"}
	ErrTokenExpired       = &Error{Code: CodeTokenExpired, Status: 401, Message: "token has expired"}
	ErrInvalidToken       = &Error{Code: CodeInvalidToken, Status: 401, Message: "invalid token"}
	ErrRateLimitExceeded  = &Error{Code: CodeRateLimitExceeded, Status: 429, Message: "too many requests, please try again later"}
	ErrAccountLocked      = &Error{Code: CodeAccountLocked, Status: 423, Message: "account is temporarily locked due to too many failed attempts"}
	ErrMFARequired        = &Error{Code: CodeMFARequired, Status: 403, Message: "multi-factor authentication token is required"}
	ErrInvalidMFAToken    = &Error{Code: CodeInvalidMFAToken, Status: 401, Message: "invalid mfa token"}
	ErrValidation         = &Error{Code: CodeValidation, Status: 400, Message: "validation error"}
	ErrPasswordPolicy     = &Error{Code: CodePasswordPolicy, Status: 400, Message: "password policy violation"}
)

func invalidMFAToken(message string) *Error {
	return &Error{Code: CodeInvalidMFAToken, Status: 401, Message: message}
}

func rateLimitExceeded(retryAfter time.Duration) *Error {
	seconds := int64(retryAfter / time.Second)
	if retryAfter%time.Second != 0 {
		seconds++
	}
	if seconds < 1 {
		seconds = 1
	}
	return &Error{
		Code:       CodeRateLimitExceeded,
		Status:     429,
		Message:    fmt.Sprintf("rate limit exceeded, retry after %d seconds", seconds),
		RetryAfter: time.Duration(seconds) * time.Second,
	}
}

func accountLocked(remaining time.Duration) *Error {
	minutes := int64(remaining / time.Minute)
	if remaining%time.Minute != 0 {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}
	return &Error{
		Code:    CodeAccountLocked,
		Status:  423,
		Message: fmt.Sprintf("account is locked, try again in %d minute(s)", minutes),
	}
}

func validationError(message, field string) *Error {
	return &Error{Code: CodeValidation, Status: 400, Message: message, Field: field}
}

func passwordPolicyError(requirements []string) *Error {
	return &Error{
		Code:         CodePasswordPolicy,
		Status:       400,
		Message:      "password must contain: " + strings.Join(requirements, ", "),
		Requirements: requirements,
	}
}
