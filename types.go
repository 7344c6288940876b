package authgate

import (
	"context"
	"time"
)

// UserRecord is the full credential record owned by the [UserStore]. The
// engine only ever holds a transient copy per call and mutates records
// exclusively through [UserStore.Update] patches.
//
// An empty MFASecret means no secret has been staged; a zero LockedUntil
// means the account is not locked.
type UserRecord struct {
	ID                  string
	Email               string
	PasswordHash        string
	MFAEnabled          bool
	MFASecret           string
	FailedLoginAttempts int
	LockedUntil         time.Time
	Roles               []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// UserPatch is a partial update applied by [UserStore.Update]. Nil fields are
// left untouched; a pointer to the zero value clears the field (empty
// MFASecret, zero LockedUntil).
type UserPatch struct {
	Email               *string
	PasswordHash        *string
	MFAEnabled          *bool
	MFASecret           *string
	FailedLoginAttempts *int
	LockedUntil         *time.Time
	Roles               []string
}

// UserStore is the credential repository contract the engine consumes.
// Implementations own durability and email-uniqueness indexing; lookups
// return (nil, nil) when no record exists, and Update fails with
// [ErrUserNotFound] when the id is absent.
type UserStore interface {
	Create(ctx context.Context, record *UserRecord) (*UserRecord, error)
	FindByID(ctx context.Context, id string) (*UserRecord, error)
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	Update(ctx context.Context, id string, patch UserPatch) (*UserRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Hasher is the slow adaptive password-hashing primitive. Hash must be
// non-deterministic per call (random salt); Verify reports whether plaintext
// matches the encoded hash.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) (bool, error)
}

// PublicUser is the externally visible projection of a [UserRecord]. It never
// carries credential material.
type PublicUser struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Roles      []string  `json:"roles"`
	MFAEnabled bool      `json:"mfa_enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

// TokenPair is the issued access/refresh credential pair. ExpiresIn is the
// access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthResult is returned by [Engine.Register] and [Engine.Login].
type AuthResult struct {
	User   PublicUser
	Tokens TokenPair
}

// MFASetup is returned by [Engine.SetupMFA]: the staged base32 secret and the
// otpauth:// enrollment URI for authenticator apps.
type MFASetup struct {
	Secret string
	URI    string
}

// AccessIdentity is the verified identity carried by an access token,
// surfaced for resource-server use via [Engine.VerifyAccessToken].
type AccessIdentity struct {
	UserID    string
	Email     string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RegisterInput is the input to [Engine.Register]. Roles defaults to
// ["user"] when empty.
type RegisterInput struct {
	Email    string
	Password string
	Roles    []string
}

// LoginInput is the input to [Engine.Login]. MFACode is required once the
// account has MFA enabled.
type LoginInput struct {
	Email    string
	Password string
	MFACode  string
}

func toPublicUser(u *UserRecord) PublicUser {
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return PublicUser{
		ID:         u.ID,
		Email:      u.Email,
		Roles:      roles,
		MFAEnabled: u.MFAEnabled,
		CreatedAt:  u.CreatedAt,
	}
}
