package app

import (
	"context"

	"github.com/devconnect/devconnect/internal/auth"
	"github.com/devconnect/devconnect/internal/posts"
)

// UserAuthors resolves post authors from the user accounts.
type UserAuthors struct {
	Users *auth.Service
}

// Author implements posts.AuthorLookup.
func (a UserAuthors) Author(ctx context.Context, userID string) (posts.Author, error) {
	u, err := a.Users.CurrentUser(ctx, userID)
	if err != nil {
		return posts.Author{}, err
	}
	return posts.Author{ID: u.ID, Name: u.Name, Avatar: u.Avatar}, nil
}
