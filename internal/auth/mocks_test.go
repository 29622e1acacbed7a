package auth

import (
	"context"
	"errors"
	"sync"
)

type memRepo struct {
	mu        sync.Mutex
	byID      map[string]*User
	findErr   error
	insertErr error
	inserts   int
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]*User)}
}

func (m *memRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) FindByID(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) Insert(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return ErrUserExists
		}
	}
	cp := *user
	m.byID[user.ID] = &cp
	m.inserts++
	return nil
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type failingIssuer struct{}

func (failingIssuer) Issue(string) (string, error) { return "", errors.New("signer unavailable") }

// countingHasher wraps a real hasher and records every call.
type countingHasher struct {
	PasswordHasher
	hashes   int
	verifies []string
}

func (c *countingHasher) Hash(plaintext string) (string, error) {
	c.hashes++
	return c.PasswordHasher.Hash(plaintext)
}

func (c *countingHasher) Verify(plaintext, hash string) bool {
	c.verifies = append(c.verifies, hash)
	return c.PasswordHasher.Verify(plaintext, hash)
}
