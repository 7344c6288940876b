package authgate

import "context"

// ChangePassword swaps the account password after verifying the current one
// and revokes every tracked session, so stolen refresh tokens die with the
// old password.
func (e *Engine) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (err error) {
	if e == nil {
		return ErrEngineNotReady
	}
	var email string
	defer func() { e.emitAudit(ctx, EventPasswordChanged, userID, email, err) }()

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return err
	}
	email = user.Email

	ok, err := e.verifyPassword(currentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	if err = ValidatePassword(newPassword, e.config.Password); err != nil {
		return err
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if _, err = e.store.Update(ctx, userID, UserPatch{PasswordHash: &hash}); err != nil {
		return err
	}
	if err = e.LogoutAll(ctx, userID); err != nil {
		return err
	}

	e.metricInc(MetricPasswordChanged)
	return nil
}

// DeleteAccount removes the account after a password check. Sessions are
// revoked before the record goes away; the deletion itself is delegated to
// the store.
func (e *Engine) DeleteAccount(ctx context.Context, userID, password string) (err error) {
	if e == nil {
		return ErrEngineNotReady
	}
	var email string
	defer func() { e.emitAudit(ctx, EventAccountDeleted, userID, email, err) }()

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return err
	}
	email = user.Email

	ok, err := e.verifyPassword(password, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	if err = e.LogoutAll(ctx, userID); err != nil {
		return err
	}
	deleted, err := e.store.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}

	e.metricInc(MetricAccountDeleted)
	return nil
}
