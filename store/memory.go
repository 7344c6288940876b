package store

import (
	"context"
	"sync"
	"time"

	"github.com/jjfarrow/authgate"
)

// Memory is a mutex-guarded map store with a unique email index. All reads
// and writes operate on copies, so callers can never mutate stored records
// through returned pointers.
type Memory struct {
	mu         sync.RWMutex
	users      map[string]*authgate.UserRecord
	emailIndex map[string]string
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[string]*authgate.UserRecord),
		emailIndex: make(map[string]string),
	}
}

func (m *Memory) Create(_ context.Context, record *authgate.UserRecord) (*authgate.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.emailIndex[record.Email]; exists {
		return nil, authgate.ErrUserAlreadyExists
	}
	stored := cloneRecord(record)
	m.users[stored.ID] = stored
	m.emailIndex[stored.Email] = stored.ID
	return cloneRecord(stored), nil
}

func (m *Memory) FindByID(_ context.Context, id string) (*authgate.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return cloneRecord(record), nil
}

func (m *Memory) FindByEmail(_ context.Context, email string) (*authgate.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emailIndex[email]
	if !ok {
		return nil, nil
	}
	return cloneRecord(m.users[id]), nil
}

func (m *Memory) Update(_ context.Context, id string, patch authgate.UserPatch) (*authgate.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.users[id]
	if !ok {
		return nil, authgate.ErrUserNotFound
	}

	if patch.Email != nil && *patch.Email != record.Email {
		if _, taken := m.emailIndex[*patch.Email]; taken {
			return nil, authgate.ErrUserAlreadyExists
		}
		delete(m.emailIndex, record.Email)
		m.emailIndex[*patch.Email] = id
		record.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		record.PasswordHash = *patch.PasswordHash
	}
	if patch.MFAEnabled != nil {
		record.MFAEnabled = *patch.MFAEnabled
	}
	if patch.MFASecret != nil {
		record.MFASecret = *patch.MFASecret
	}
	if patch.FailedLoginAttempts != nil {
		record.FailedLoginAttempts = *patch.FailedLoginAttempts
	}
	if patch.LockedUntil != nil {
		record.LockedUntil = *patch.LockedUntil
	}
	if patch.Roles != nil {
		record.Roles = append([]string(nil), patch.Roles...)
	}
	record.UpdatedAt = time.Now()

	return cloneRecord(record), nil
}

func (m *Memory) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.users[id]
	if !ok {
		return false, nil
	}
	delete(m.emailIndex, record.Email)
	delete(m.users, id)
	return true, nil
}

// Count reports the number of stored records.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

func cloneRecord(r *authgate.UserRecord) *authgate.UserRecord {
	clone := *r
	clone.Roles = append([]string(nil), r.Roles...)
	return &clone
}
