package authgate

import (
	"context"
	"time"

	"github.com/jjfarrow/authgate/totp"
)

// SetupMFA stages a fresh TOTP secret on the account and returns it with
// the provisioning URI for authenticator enrollment. The secret stays
// inactive until [Engine.EnableMFA] confirms the user can produce codes
// from it; calling SetupMFA again replaces any previously staged secret.
func (e *Engine) SetupMFA(ctx context.Context, userID string) (setup *MFASetup, err error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	var email string
	defer func() { e.emitAudit(ctx, EventMFASetup, userID, email, err) }()

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	email = user.Email

	secret, err := totp.GenerateSecret()
	if err != nil {
		return nil, err
	}
	if _, err = e.store.Update(ctx, userID, UserPatch{MFASecret: &secret}); err != nil {
		return nil, err
	}

	return &MFASetup{
		Secret: secret,
		URI:    e.totp.ProvisionURI(secret, user.Email),
	}, nil
}

// EnableMFA activates MFA after the user proves possession of the staged
// secret with a current code. From the next login on, a valid code is
// required.
func (e *Engine) EnableMFA(ctx context.Context, userID, code string) (err error) {
	if e == nil {
		return ErrEngineNotReady
	}
	var email string
	defer func() { e.emitAudit(ctx, EventMFAEnabled, userID, email, err) }()

	user, err := e.findUser(ctx, userID)
	if err != nil {
		return err
	}
	email = user.Email

	if user.MFASecret == "" {
		return invalidMFAToken("MFA has not been set up, call SetupMFA first")
	}
	if !e.totp.Verify(user.MFASecret, code, time.Now()) {
		return ErrInvalidMFAToken
	}

	enabled := true
	_, err = e.store.Update(ctx, userID, UserPatch{MFAEnabled: &enabled})
	return err
}

// DisableMFA turns MFA off and discards the secret. It is gated on the
// account password, not a TOTP code, so a user who lost their authenticator
// can still turn MFA off.
func (e *Engine) DisableMFA(ctx context.Context, userID, password string) (err error) {
	if e == nil {
		return ErrEngineNotReady
	}
	var email string
	defer func() { e.emitAudit(ctx, EventMFADisabled, userID, email, err) }()

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

	disabled := false
	empty := ""
	_, err = e.store.Update(ctx, userID, UserPatch{
		MFAEnabled: &disabled,
		MFASecret:  &empty,
	})
	return err
}
