package posts

import (
	"errors"

	"github.com/devconnect/devconnect/internal/platform/httpx"
)

var (
	// ErrNotFound is returned by the repository when no post matches.
	ErrNotFound = errors.New("post not found")

	// ErrPostNotFound is the 404 for an unknown or malformed post id.
	ErrPostNotFound = httpx.NewClientError(httpx.ErrNotFound, "Post not found")
	// ErrNotAuthorized is returned when the caller does not own the post or
	// comment being removed.
	ErrNotAuthorized = httpx.NewClientError(httpx.ErrUnauthorized, "User not authorized")
	// ErrAlreadyLiked rejects a second like from the same user.
	ErrAlreadyLiked = httpx.NewClientError(httpx.ErrBadRequest, "Post already liked")
	// ErrNotLiked rejects an unlike from a user with no like on the post.
	ErrNotLiked = httpx.NewClientError(httpx.ErrBadRequest, "Post has not yet been liked")
	// ErrCommentNotFound is the 404 for a comment id missing from the post.
	ErrCommentNotFound = httpx.NewClientError(httpx.ErrNotFound, "Comment does not exist")
)
