package authgate

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Register creates an account and signs it straight in: the returned pair is
// tracked like any login session. Roles defaults to ["user"].
func (e *Engine) Register(ctx context.Context, input RegisterInput) (result *AuthResult, err error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	email := NormalizeEmail(input.Email)
	defer func() { e.emitAudit(ctx, EventRegister, "", email, err) }()

	if err = ValidateEmail(email); err != nil {
		return nil, err
	}
	if err = ValidatePassword(input.Password, e.config.Password); err != nil {
		return nil, err
	}

	existing, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hash, err := e.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []string{"user"}
	}
	now := time.Now()
	user := &UserRecord{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := e.store.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	tokens, err := e.issueSession(created)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	return &AuthResult{User: toPublicUser(created), Tokens: *tokens}, nil
}

// issueSession creates a token pair and tracks its refresh jti under the
// user for bulk revocation.
func (e *Engine) issueSession(user *UserRecord) (*TokenPair, error) {
	pair, err := e.tokens.IssuePair(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, err
	}
	e.sessions.track(user.ID, pair.RefreshID, pair.RefreshExpiresAt)
	return &TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
