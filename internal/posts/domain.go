package posts

import (
	"context"
	"time"
)

// Like records one user's like on a post.
type Like struct {
	ID   string `json:"_id"`
	User string `json:"user"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        string    `json:"_id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"date"`
}

// Post is an entry of the shared feed. Name and Avatar are copied from the
// author when the post is created.
type Post struct {
	ID        string    `json:"_id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"date"`
}

// Author is the display identity copied onto posts and comments.
type Author struct {
	ID     string
	Name   string
	Avatar string
}

// AuthorLookup resolves the caller's display identity.
type AuthorLookup interface {
	Author(ctx context.Context, userID string) (Author, error)
}

// Repository abstracts persistence for posts.
type Repository interface {
	Insert(ctx context.Context, p *Post) error
	List(ctx context.Context) ([]Post, error)
	FindByID(ctx context.Context, id string) (*Post, error)
	Delete(ctx context.Context, id string) error
	// Update locks the post row, applies fn and saves likes and comments in
	// the same transaction.
	Update(ctx context.Context, id string, fn func(*Post) error) (*Post, error)
	// PurgeUser deletes the user's posts and strips their likes and comments
	// from every other post.
	PurgeUser(ctx context.Context, userID string) (PurgeResult, error)
}

// PurgeResult reports what PurgeUser changed.
type PurgeResult struct {
	PostsDeleted int64
	PostsUpdated int64
}
