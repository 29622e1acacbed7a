package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Service wraps the authentication business rules.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
	avatar func(email string) string
	now    func() time.Time
	decoy  func() string
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		avatar: GravatarURL,
		now:    time.Now,
		decoy: sync.OnceValue(func() string {
			hash, _ := hasher.Hash("devconnect-decoy-password")
			return hash
		}),
	}
}

// Register creates an account and returns a session token for it.
//
// The user row is written before the token is signed; if signing fails the
// account exists and the caller has to log in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	email := NormalizeEmail(in.Email)

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrUserExists
	case !errors.Is(err, ErrUserNotFound):
		return "", fmt.Errorf("auth: find by email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Name:         norm.NFC.String(strings.TrimSpace(in.Name)),
		Email:        email,
		PasswordHash: hash,
		Avatar:       s.avatar(email),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("auth: insert user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("auth: issue token: %w", err)
	}
	return token, nil
}

// Login validates email/password credentials and returns a session token.
// Unknown emails and wrong passwords fail with the same error, and both pay
// for one hash comparison.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(password, s.decoy())
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth: find by email: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("auth: issue token: %w", err)
	}
	return token, nil
}

// CurrentUser loads the account behind a verified token subject. A missing
// record is a consistency fault, not a client error.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("auth: find by id %s: %w", userID, err)
	}
	return user, nil
}

// NormalizeEmail trims and lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
