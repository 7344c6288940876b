package authgate

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jjfarrow/authgate/internal/rate"
	"github.com/jjfarrow/authgate/jwt"
	"github.com/jjfarrow/authgate/totp"
)

// ErrEngineNotReady is returned when methods are called on a nil Engine.
var ErrEngineNotReady = errors.New("engine not initialized")

// Engine is the auth orchestrator: it sequences the rate limiter, credential
// store, hasher, token engine and MFA engine into the register / login /
// refresh / logout / MFA / password flows, and owns the account-lockout and
// active-session state machines.
//
// Engines are built through [Builder.Build], safe for concurrent use, and
// shut down with [Engine.Close].
type Engine struct {
	config    Config
	store     UserStore
	hasher    Hasher
	tokens    *jwt.Manager
	totp      totp.Config
	limiter   rate.Limiter
	sessions  *refreshIndex
	accounts  *keyedLock
	rotations *keyedLock
	audit     *auditDispatcher
	metrics   *Metrics
	logger    zerolog.Logger
}

// Close stops the rate limiter sweep and drains the audit pipeline.
// Idempotent; safe to call once at shutdown.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.limiter != nil {
		e.limiter.Close()
	}
	e.audit.close()
}

// VerifyAccessToken verifies signature, issuer, kind and expiry of an access
// token and returns the identity it carries. Surfaced for resource-server
// use; pure delegation to the token engine.
func (e *Engine) VerifyAccessToken(token string) (*AccessIdentity, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	claims, err := e.tokens.ParseAccess(token)
	if err != nil {
		return nil, tokenError(err)
	}
	return &AccessIdentity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Roles:     claims.Roles,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// GetUser returns the public profile for the user id.
func (e *Engine) GetUser(ctx context.Context, userID string) (*PublicUser, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	user, err := e.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := toPublicUser(user)
	return &profile, nil
}

// RemainingLoginAttempts reports how many attempts are left in the email's
// current rate window.
func (e *Engine) RemainingLoginAttempts(ctx context.Context, email string) (int, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	return e.limiter.Remaining(ctx, NormalizeEmail(email))
}

// MetricsSnapshot copies the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.droppedCount()
}

// findUser loads by id and maps absence to [ErrUserNotFound].
func (e *Engine) findUser(ctx context.Context, userID string) (*UserRecord, error) {
	user, err := e.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (e *Engine) verifyPassword(plaintext, hash string) (bool, error) {
	ok, err := e.hasher.Verify(plaintext, hash)
	if err != nil {
		// A hash the verifier cannot parse is treated as a mismatch:
		// surfacing the parse failure would leak stored-credential state.
		e.logger.Warn().Err(err).Msg("password hash verification errored")
		return false, nil
	}
	return ok, nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, eventType, userID, email string, opErr error) {
	if e == nil || e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		Success:   opErr == nil,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	e.audit.emit(ctx, event)
}

// tokenError maps token-engine sentinels onto the taxonomy.
func tokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrInvalid):
		return ErrInvalidToken
	default:
		return err
	}
}

// limitError maps limiter rejections onto the taxonomy, preserving
// retry-after.
func limitError(err error) error {
	var retry *rate.RetryError
	if errors.As(err, &retry) {
		return rateLimitExceeded(retry.After)
	}
	return err
}
