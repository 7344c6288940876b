package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

var (
	// ErrExpired indicates a structurally valid token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers bad signatures, wrong issuer, wrong kind, and
	// revoked refresh tokens.
	ErrInvalid = errors.New("invalid token")
)

// RevocationStore is the process-wide (or shared external) set of revoked
// refresh-token ids consulted by [Manager.ParseRefresh]. Entries may be
// pruned once expiresAt has passed.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Config holds the signing material and lifetimes for both token kinds.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// Manager issues, verifies and revokes token pairs. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	config  Config
	revoked RevocationStore
}

// Pair is an issued access/refresh pair. RefreshID and RefreshExpiresAt let
// the caller track the refresh token for bulk revocation without re-decoding
// it.
type Pair struct {
	AccessToken      string
	RefreshToken     string
	RefreshID        string
	RefreshExpiresAt time.Time
	ExpiresIn        int64
}

// AccessClaims is the verified content of an access token.
type AccessClaims struct {
	Subject   string
	Email     string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RefreshClaims is the verified content of a refresh token.
type RefreshClaims struct {
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type accessPayload struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	Kind  string   `json:"type"`
	jwt.RegisteredClaims
}

type refreshPayload struct {
	Kind string `json:"type"`
	jwt.RegisteredClaims
}

// NewManager validates the configuration and returns a ready Manager.
// revoked may be nil, in which case refresh tokens are only bounded by
// expiry.
func NewManager(cfg Config, revoked RevocationStore) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("both signing secrets are required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Manager{config: cfg, revoked: revoked}, nil
}

// IssuePair creates a fresh access/refresh pair for the subject. The refresh
// jti is allocated here; tracking it is the caller's job.
func (m *Manager) IssuePair(subject, email string, roles []string) (*Pair, error) {
	now := time.Now()
	accessExp := now.Add(m.config.AccessTTL)
	refreshExp := now.Add(m.config.RefreshTTL)
	jti := uuid.NewString()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessPayload{
		Email: email,
		Roles: roles,
		Kind:  kindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	})
	accessToken, err := access.SignedString(m.config.AccessSecret)
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshPayload{
		Kind: kindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.config.Issuer,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
	})
	refreshToken, err := refresh.SignedString(m.config.RefreshSecret)
	if err != nil {
		return nil, err
	}

	return &Pair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshID:        jti,
		RefreshExpiresAt: refreshExp,
		ExpiresIn:        int64(m.config.AccessTTL / time.Second),
	}, nil
}

// ParseAccess verifies signature, issuer, expiry and kind of an access
// token. It fails with [ErrExpired] or [ErrInvalid].
func (m *Manager) ParseAccess(token string) (*AccessClaims, error) {
	var claims accessPayload
	if err := m.parse(token, &claims, m.config.AccessSecret); err != nil {
		return nil, err
	}
	if claims.Kind != kindAccess {
		return nil, ErrInvalid
	}
	return &AccessClaims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Roles:     claims.Roles,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ParseRefresh verifies a refresh token and additionally rejects revoked
// jtis.
func (m *Manager) ParseRefresh(ctx context.Context, token string) (*RefreshClaims, error) {
	var claims refreshPayload
	if err := m.parse(token, &claims, m.config.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.Kind != kindRefresh || claims.ID == "" {
		return nil, ErrInvalid
	}
	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalid
		}
	}
	return &RefreshClaims{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (m *Manager) parse(token string, claims jwt.Claims, secret []byte) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return ErrInvalid
	}
	if !parsed.Valid {
		return ErrInvalid
	}
	return nil
}

// Decode extracts subject, jti and expiry from a refresh token without
// verifying the signature. Logout uses it to untrack tokens it will revoke
// regardless of validity.
func (m *Manager) Decode(token string) (subject, tokenID string, expiresAt time.Time, err error) {
	var claims refreshPayload
	if _, _, err = jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", "", time.Time{}, ErrInvalid
	}
	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return claims.Subject, claims.ID, exp, nil
}

// Revoke adds the token's jti to the revocation set. A token that cannot
// even be decoded is already unusable, so that case is a no-op. Idempotent.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if m.revoked == nil {
		return nil
	}
	_, tokenID, expiresAt, err := m.Decode(token)
	if err != nil || tokenID == "" {
		return nil
	}
	return m.revoked.Revoke(ctx, tokenID, expiresAt)
}

// RevokeID revokes a refresh token by its already-known jti.
func (m *Manager) RevokeID(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.revoked == nil || tokenID == "" {
		return nil
	}
	return m.revoked.Revoke(ctx, tokenID, expiresAt)
}

// RevokeMany applies Revoke to each token. Malformed entries do not abort
// the remaining revocations; the first store error is reported after the
// batch completes.
func (m *Manager) RevokeMany(ctx context.Context, tokens []string) error {
	var firstErr error
	for _, token := range tokens {
		if err := m.Revoke(ctx, token); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
