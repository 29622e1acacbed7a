// Package auth implements account registration, login, bearer-token
// verification and the authenticated-identity endpoint.
package auth

import (
	"context"
	"time"
)

// User represents an account. The password hash never leaves the server.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"date"`
}

// Repository is the credential store boundary.
type Repository interface {
	// FindByEmail returns ErrUserNotFound when no account uses email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByID returns ErrUserNotFound when id is unknown or malformed.
	FindByID(ctx context.Context, id string) (*User, error)
	// Insert returns ErrUserExists when the email is already taken.
	Insert(ctx context.Context, user *User) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints session tokens bound to a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// TokenVerifier validates a session token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}
