package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jjfarrow/authgate"
)

func seedUser(t *testing.T, m *Memory, id, email string) *authgate.UserRecord {
	t.Helper()
	now := time.Now()
	record, err := m.Create(context.Background(), &authgate.UserRecord{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		Roles:        []string{"user"},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return record
}

func TestCreateAndLookup(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedUser(t, m, "u1", "a@example.com")

	byID, err := m.FindByID(ctx, "u1")
	if err != nil || byID == nil {
		t.Fatalf("FindByID = %v, %v", byID, err)
	}
	byEmail, err := m.FindByEmail(ctx, "a@example.com")
	if err != nil || byEmail == nil || byEmail.ID != "u1" {
		t.Fatalf("FindByEmail = %v, %v", byEmail, err)
	}

	missing, err := m.FindByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("FindByID(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	m := NewMemory()
	seedUser(t, m, "u1", "a@example.com")
	_, err := m.Create(context.Background(), &authgate.UserRecord{ID: "u2", Email: "a@example.com"})
	if !errors.Is(err, authgate.ErrUserAlreadyExists) {
		t.Fatalf("duplicate create = %v, want ErrUserAlreadyExists", err)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	record := seedUser(t, m, "u1", "a@example.com")

	record.PasswordHash = "mutated"
	record.Roles[0] = "admin"

	fresh, _ := m.FindByID(ctx, "u1")
	if fresh.PasswordHash != "hash" || fresh.Roles[0] != "user" {
		t.Fatal("external mutation leaked into the store")
	}
}

func TestUpdateAppliesPatchAndReindexesEmail(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedUser(t, m, "u1", "a@example.com")

	newEmail := "b@example.com"
	enabled := true
	attempts := 3
	updated, err := m.Update(ctx, "u1", authgate.UserPatch{
		Email:               &newEmail,
		MFAEnabled:          &enabled,
		FailedLoginAttempts: &attempts,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Email != "b@example.com" || !updated.MFAEnabled || updated.FailedLoginAttempts != 3 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Error("UpdatedAt not refreshed")
	}

	if old, _ := m.FindByEmail(ctx, "a@example.com"); old != nil {
		t.Error("old email still indexed")
	}
	if renamed, _ := m.FindByEmail(ctx, "b@example.com"); renamed == nil {
		t.Error("new email not indexed")
	}

	// Untouched fields survive.
	if updated.PasswordHash != "hash" {
		t.Errorf("password hash clobbered: %q", updated.PasswordHash)
	}
}

func TestUpdateClearsFieldsViaZeroPointers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedUser(t, m, "u1", "a@example.com")

	secret := "SECRET"
	locked := time.Now().Add(time.Hour)
	if _, err := m.Update(ctx, "u1", authgate.UserPatch{MFASecret: &secret, LockedUntil: &locked}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	empty := ""
	var zero time.Time
	updated, err := m.Update(ctx, "u1", authgate.UserPatch{MFASecret: &empty, LockedUntil: &zero})
	if err != nil {
		t.Fatalf("clearing Update failed: %v", err)
	}
	if updated.MFASecret != "" || !updated.LockedUntil.IsZero() {
		t.Fatalf("fields not cleared: %+v", updated)
	}
}

func TestUpdateMissingUser(t *testing.T) {
	m := NewMemory()
	_, err := m.Update(context.Background(), "ghost", authgate.UserPatch{})
	if !errors.Is(err, authgate.ErrUserNotFound) {
		t.Fatalf("Update(ghost) = %v, want ErrUserNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	seedUser(t, m, "u1", "a@example.com")

	ok, err := m.Delete(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v; want true", ok, err)
	}
	if record, _ := m.FindByEmail(ctx, "a@example.com"); record != nil {
		t.Error("email index survived delete")
	}
	ok, err = m.Delete(ctx, "u1")
	if err != nil || ok {
		t.Fatalf("second Delete = %v, %v; want false", ok, err)
	}
}
