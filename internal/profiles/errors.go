package profiles

import (
	"errors"

	"github.com/devconnect/devconnect/internal/platform/httpx"
)

var (
	// ErrNoProfile is returned when the caller has no profile yet.
	ErrNoProfile = httpx.NewClientError(httpx.ErrBadRequest, "There is no profile for this user")
	// ErrProfileNotFound is returned by the public lookup by user id.
	ErrProfileNotFound = httpx.NewClientError(httpx.ErrBadRequest, "Profile not found")
	// ErrExperienceNotFound is returned when removing an unknown experience entry.
	ErrExperienceNotFound = httpx.NewClientError(httpx.ErrNotFound, "Experience not found")
	// ErrEducationNotFound is returned when removing an unknown education entry.
	ErrEducationNotFound = httpx.NewClientError(httpx.ErrNotFound, "Education not found")
	// ErrNoGitHubProfile is returned when GitHub does not know the username.
	ErrNoGitHubProfile = httpx.NewClientError(httpx.ErrNotFound, "No Github profile found")

	// ErrNotFound is returned by the repository when no profile matches.
	ErrNotFound = errors.New("profile not found")
)
