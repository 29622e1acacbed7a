package auth

import (
	"errors"

	"github.com/devconnect/devconnect/internal/platform/httpx"
)

var (
	// ErrUserExists is returned when registering an email that is taken.
	ErrUserExists = httpx.NewClientError(httpx.ErrBadRequest, "User already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = httpx.NewClientError(httpx.ErrBadRequest, "Invalid Credentials")
	// ErrNoToken is returned by the middleware when no token is presented.
	ErrNoToken = httpx.NewClientError(httpx.ErrUnauthorized, "No token, authorization denied")
	// ErrTokenInvalid covers bad signatures, malformed tokens and wrong algorithms.
	ErrTokenInvalid = httpx.NewClientError(httpx.ErrUnauthorized, "Token is not valid")
	// ErrTokenExpired is a token past its expiry. It reports as ErrTokenInvalid.
	ErrTokenExpired = errors.Join(ErrTokenInvalid, errors.New("token expired"))

	// ErrUserNotFound indicates the credential store has no such account.
	ErrUserNotFound = errors.New("user not found")
	// ErrSigningKey indicates the token secret is unavailable.
	ErrSigningKey = errors.New("token signing key not configured")
)
