package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/devconnect/devconnect/internal/platform/httpx"
)

// Service implements the feed use cases.
type Service struct {
	repo    Repository
	authors AuthorLookup
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a post service.
func NewService(repo Repository, authors AuthorLookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, authors: authors, logger: logger, now: time.Now}
}

// Create publishes a post by the caller.
func (s *Service) Create(ctx context.Context, userID, text string) (*Post, error) {
	author, err := s.authors.Author(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("posts: author: %w", err)
	}
	p := &Post{
		ID:        uuid.NewString(),
		User:      userID,
		Text:      cleanText(text),
		Name:      author.Name,
		Avatar:    author.Avatar,
		Likes:     []Like{},
		Comments:  []Comment{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("posts: insert: %w", err)
	}
	return p, nil
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("posts: list: %w", err)
	}
	return list, nil
}

// Get returns one post.
func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr("find", err)
	}
	return p, nil
}

// Delete removes a post owned by the caller.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapErr("find", err)
	}
	if p.User != userID {
		return ErrNotAuthorized
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr("delete", err)
	}
	return nil
}

// Like adds the caller's like and returns the updated likes.
func (s *Service) Like(ctx context.Context, userID, id string) ([]Like, error) {
	p, err := s.repo.Update(ctx, id, func(p *Post) error {
		if likedBy(p, userID) >= 0 {
			return ErrAlreadyLiked
		}
		p.Likes = append([]Like{{ID: uuid.NewString(), User: userID}}, p.Likes...)
		return nil
	})
	if err != nil {
		return nil, s.mapErr("like", err)
	}
	return p.Likes, nil
}

// Unlike removes the caller's like and returns the updated likes.
func (s *Service) Unlike(ctx context.Context, userID, id string) ([]Like, error) {
	p, err := s.repo.Update(ctx, id, func(p *Post) error {
		i := likedBy(p, userID)
		if i < 0 {
			return ErrNotLiked
		}
		p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, s.mapErr("unlike", err)
	}
	return p.Likes, nil
}

// Comment adds a comment by the caller and returns the updated comments.
func (s *Service) Comment(ctx context.Context, userID, id, text string) ([]Comment, error) {
	author, err := s.authors.Author(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("posts: author: %w", err)
	}
	c := Comment{
		ID:        uuid.NewString(),
		User:      userID,
		Text:      cleanText(text),
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: s.now().UTC(),
	}
	p, err := s.repo.Update(ctx, id, func(p *Post) error {
		p.Comments = append([]Comment{c}, p.Comments...)
		return nil
	})
	if err != nil {
		return nil, s.mapErr("comment", err)
	}
	return p.Comments, nil
}

// Uncomment deletes one of the caller's comments and returns the rest.
func (s *Service) Uncomment(ctx context.Context, userID, id, commentID string) ([]Comment, error) {
	p, err := s.repo.Update(ctx, id, func(p *Post) error {
		for i, c := range p.Comments {
			if c.ID != commentID {
				continue
			}
			if c.User != userID {
				return ErrNotAuthorized
			}
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
		return ErrCommentNotFound
	})
	if err != nil {
		return nil, s.mapErr("uncomment", err)
	}
	return p.Comments, nil
}

// PurgeUser removes every trace of a deleted account from the feed.
func (s *Service) PurgeUser(ctx context.Context, userID string) error {
	res, err := s.repo.PurgeUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("posts: purge user: %w", err)
	}
	s.logger.Info("purged user posts",
		slog.String("user_id", userID),
		slog.Int64("deleted", res.PostsDeleted),
		slog.Int64("updated", res.PostsUpdated))
	return nil
}

// SchedulePurge runs the purge inline. It is used when no job queue is
// configured.
func (s *Service) SchedulePurge(ctx context.Context, userID string) error {
	return s.PurgeUser(ctx, userID)
}

func (s *Service) mapErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrPostNotFound
	case httpx.IsClientError(err):
		return err
	default:
		return fmt.Errorf("posts: %s: %w", op, err)
	}
}

func likedBy(p *Post, userID string) int {
	for i, l := range p.Likes {
		if l.User == userID {
			return i
		}
	}
	return -1
}

func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
