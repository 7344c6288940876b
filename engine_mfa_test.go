package authgate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jjfarrow/authgate"
)

func TestMFALifecycle(t *testing.T) {
	engine, users := newTestEngine(t)
	registered := registerUser(t, engine, "lifecycle@example.com")
	ctx := context.Background()

	setup, err := engine.SetupMFA(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if setup.Secret == "" {
		t.Fatal("empty secret")
	}
	if !strings.HasPrefix(setup.URI, "otpauth://totp/") {
		t.Errorf("URI = %q", setup.URI)
	}
	if !strings.Contains(setup.URI, "secret="+setup.Secret) {
		t.Errorf("URI does not carry the secret: %q", setup.URI)
	}

	// Staged but not yet enabled: login stays single factor.
	if _, err := login(engine, "lifecycle@example.com", testPassword); err != nil {
		t.Fatalf("login with staged secret: %v", err)
	}

	if err := engine.EnableMFA(ctx, registered.User.ID, "000000"); !errors.Is(err, authgate.ErrInvalidMFAToken) {
		t.Fatalf("enable with wrong code: expected ErrInvalidMFAToken, got %v", err)
	}
	if err := engine.EnableMFA(ctx, registered.User.ID, totpCode(t, setup.Secret)); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if _, err := login(engine, "lifecycle@example.com", testPassword); !errors.Is(err, authgate.ErrMFARequired) {
		t.Fatalf("login after enable: expected ErrMFARequired, got %v", err)
	}

	if err := engine.DisableMFA(ctx, registered.User.ID, "Wr0ng!Password"); !errors.Is(err, authgate.ErrInvalidCredentials) {
		t.Fatalf("disable with wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if err := engine.DisableMFA(ctx, registered.User.ID, testPassword); err != nil {
		t.Fatalf("disable: %v", err)
	}

	user := mustFindByEmail(t, users, "lifecycle@example.com")
	if user.MFAEnabled {
		t.Error("MFAEnabled still set after disable")
	}
	if user.MFASecret != "" {
		t.Error("MFASecret not cleared after disable")
	}
	if _, err := login(engine, "lifecycle@example.com", testPassword); err != nil {
		t.Fatalf("login after disable: %v", err)
	}
}

func TestEnableMFAWithoutSetup(t *testing.T) {
	engine, _ := newTestEngine(t)
	registered := registerUser(t, engine, "nosetup@example.com")

	err := engine.EnableMFA(context.Background(), registered.User.ID, "123456")
	if !errors.Is(err, authgate.ErrInvalidMFAToken) {
		t.Fatalf("expected ErrInvalidMFAToken, got %v", err)
	}
	if !strings.Contains(err.Error(), "SetupMFA") {
		t.Errorf("message %q does not point at SetupMFA", err.Error())
	}
}

func TestSetupMFAReplacesStagedSecret(t *testing.T) {
	engine, users := newTestEngine(t)
	registered := registerUser(t, engine, "restage@example.com")
	ctx := context.Background()

	first, err := engine.SetupMFA(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("first setup: %v", err)
	}
	second, err := engine.SetupMFA(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("second setup: %v", err)
	}
	if first.Secret == second.Secret {
		t.Fatal("second setup reused the first secret")
	}
	if user := mustFindByEmail(t, users, "restage@example.com"); user.MFASecret != second.Secret {
		t.Error("store does not hold the latest staged secret")
	}
}

func TestSetupMFAUnknownUser(t *testing.T) {
	engine, _ := newTestEngine(t)
	if _, err := engine.SetupMFA(context.Background(), "no-such-id"); !errors.Is(err, authgate.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
