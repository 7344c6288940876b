package authgate

import "context"

// Refresh rotates a refresh token: the presented token is verified, revoked
// and replaced by a brand-new pair. Rotation makes refresh tokens single
// use; replaying a rotated token fails as revoked. Rotation is serialized
// per jti, so concurrent presentations of the same token yield exactly one
// new pair.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (pair *TokenPair, err error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	var userID string
	defer func() { e.emitAudit(ctx, EventRefresh, userID, "", err) }()

	// The jti comes from an unverified decode; it only picks the lock
	// stripe. ParseRefresh below does the real verification under it.
	_, tokenID, _, decodeErr := e.tokens.Decode(refreshToken)
	if decodeErr != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, tokenError(decodeErr)
	}
	unlock := e.rotations.lock(tokenID)
	defer unlock()

	claims, err := e.tokens.ParseRefresh(ctx, refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, tokenError(err)
	}
	userID = claims.Subject

	user, err := e.findUser(ctx, claims.Subject)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, err
	}

	// Revoke before reissue so a crash between the two steps leaves the
	// presented token dead rather than two live tokens.
	if err = e.tokens.RevokeID(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, err
	}
	e.sessions.untrack(user.ID, claims.TokenID)

	pair, err = e.issueSession(user)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, err
	}
	e.metricInc(MetricRefreshSuccess)
	return pair, nil
}

// Logout revokes a single refresh token. Best effort by contract: malformed
// or already-dead tokens do not error, so clients can always complete a
// logout.
func (e *Engine) Logout(ctx context.Context, refreshToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	subject, tokenID, _, err := e.tokens.Decode(refreshToken)
	if err == nil && subject != "" && tokenID != "" {
		e.sessions.untrack(subject, tokenID)
	}
	if err := e.tokens.Revoke(ctx, refreshToken); err != nil {
		return err
	}
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, EventLogout, subject, "", nil)
	return nil
}

// LogoutAll revokes every refresh token tracked for the user. Sessions
// issued by another process are not in this index and survive; they still
// die at their natural expiry.
func (e *Engine) LogoutAll(ctx context.Context, userID string) (err error) {
	if e == nil {
		return ErrEngineNotReady
	}
	defer func() { e.emitAudit(ctx, EventLogoutAll, userID, "", err) }()

	tokens := e.sessions.drain(userID)
	for tokenID, expiresAt := range tokens {
		if revokeErr := e.tokens.RevokeID(ctx, tokenID, expiresAt); revokeErr != nil && err == nil {
			err = revokeErr
		}
	}
	if err != nil {
		return err
	}
	e.metricInc(MetricLogoutAll)
	return nil
}
