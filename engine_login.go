package authgate

import (
	"context"
	"time"
)

// Login authenticates by email and password, enforcing the attempt window,
// the account-lockout state machine, and MFA when the account has it
// enabled.
//
// The limiter records the attempt before the outcome is known, so even
// successful logins consume window capacity; a full success then resets the
// window. Lookup misses and password mismatches return the same
// [ErrInvalidCredentials] to prevent account enumeration.
func (e *Engine) Login(ctx context.Context, input LoginInput) (result *AuthResult, err error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	email := NormalizeEmail(input.Email)
	var userID string
	defer func() { e.emitAudit(ctx, EventLogin, userID, email, err) }()

	if err = e.limiter.Check(ctx, email); err != nil {
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, EventLoginRateLimit, "", email, nil)
		return nil, limitError(err)
	}
	if err = e.limiter.Record(ctx, email); err != nil {
		return nil, err
	}

	user, err := e.authenticate(ctx, email, input.Password, input.MFACode)
	if err != nil {
		return nil, err
	}
	userID = user.ID

	if err = e.limiter.Reset(ctx, email); err != nil {
		return nil, err
	}
	tokens, err := e.issueSession(user)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	return &AuthResult{User: toPublicUser(user), Tokens: *tokens}, nil
}

// authenticate runs lookup, lock check, password verification, failure
// bookkeeping and the MFA gate under the account's stripe lock so
// concurrent attempts for one account serialize: the failed-attempt
// increment and the lock decision are atomic per account.
func (e *Engine) authenticate(ctx context.Context, email, plaintext, mfaCode string) (*UserRecord, error) {
	unlock := e.accounts.lock(email)
	defer unlock()

	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		e.metricInc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	if remaining := time.Until(user.LockedUntil); remaining > 0 {
		e.metricInc(MetricLoginLocked)
		return nil, accountLocked(remaining)
	}

	ok, err := e.verifyPassword(plaintext, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := e.recordFailedLogin(ctx, user); err != nil {
			return nil, err
		}
		e.metricInc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	if user.MFAEnabled {
		if mfaCode == "" {
			e.metricInc(MetricMFARequired)
			return nil, ErrMFARequired
		}
		if user.MFASecret == "" || !e.totp.Verify(user.MFASecret, mfaCode, time.Now()) {
			e.metricInc(MetricMFAFailure)
			return nil, ErrInvalidMFAToken
		}
	}

	if err := e.clearFailureState(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// recordFailedLogin advances the lockout state machine: the counter
// increments until it reaches the threshold, at which point the account
// locks and the counter resets so the next cycle starts clean after the
// lock expires.
func (e *Engine) recordFailedLogin(ctx context.Context, user *UserRecord) error {
	attempts := user.FailedLoginAttempts + 1
	patch := UserPatch{FailedLoginAttempts: &attempts}

	if attempts >= e.config.Account.MaxFailedAttempts {
		lockedUntil := time.Now().Add(e.config.Account.LockoutDuration)
		zero := 0
		patch.LockedUntil = &lockedUntil
		patch.FailedLoginAttempts = &zero
		e.emitAudit(ctx, EventAccountLockout, user.ID, user.Email, nil)
	}

	_, err := e.store.Update(ctx, user.ID, patch)
	return err
}

// clearFailureState wipes counter and lock expiry after a full success,
// writing only when there is something to clear.
func (e *Engine) clearFailureState(ctx context.Context, user *UserRecord) error {
	if user.FailedLoginAttempts == 0 && user.LockedUntil.IsZero() {
		return nil
	}
	zero := 0
	var unlocked time.Time
	_, err := e.store.Update(ctx, user.ID, UserPatch{
		FailedLoginAttempts: &zero,
		LockedUntil:         &unlocked,
	})
	if err != nil {
		return err
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = time.Time{}
	return nil
}
