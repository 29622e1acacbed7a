package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devconnect/devconnect/internal/platform/db"
)

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error)
}

// PGRepository implements Repository using PostgreSQL. Likes and comments
// are JSONB arrays on the post row.
type PGRepository struct {
	db dbtx
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

const selectPost = `SELECT id::text, user_id::text, text, name, avatar, likes, comments, created_at FROM posts`

// Insert stores a new post.
func (r *PGRepository) Insert(ctx context.Context, p *Post) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO posts (id, user_id, text, name, avatar, likes, comments, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.User, p.Text, p.Name, p.Avatar, nonNil(p.Likes), nonNil(p.Comments), p.CreatedAt,
	)
	return err
}

// List returns all posts, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Post, error) {
	rows, err := r.db.Query(ctx, selectPost+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// FindByID fetches a post.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return scanPost(r.db.QueryRow(ctx, selectPost+` WHERE id = $1`, id))
}

// Delete removes a post.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Update runs fn against the locked post row.
func (r *PGRepository) Update(ctx context.Context, id string, fn func(*Post) error) (*Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var out *Post
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		p, err := scanPost(tx.QueryRow(ctx, selectPost+` WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		p.Likes = nonNil(p.Likes)
		p.Comments = nonNil(p.Comments)
		if _, err := tx.Exec(ctx, `UPDATE posts SET likes = $2, comments = $3 WHERE id = $1`, p.ID, p.Likes, p.Comments); err != nil {
			return fmt.Errorf("save post: %w", err)
		}
		out = p
		return nil
	})
	return out, err
}

const stripUser = `UPDATE posts SET
	likes = COALESCE((SELECT jsonb_agg(e ORDER BY i) FROM jsonb_array_elements(likes) WITH ORDINALITY AS t(e, i)
		WHERE e->>'user' <> $1), '[]'::jsonb),
	comments = COALESCE((SELECT jsonb_agg(e ORDER BY i) FROM jsonb_array_elements(comments) WITH ORDINALITY AS t(e, i)
		WHERE e->>'user' <> $1), '[]'::jsonb)
WHERE likes @> jsonb_build_array(jsonb_build_object('user', $1::text))
	OR comments @> jsonb_build_array(jsonb_build_object('user', $1::text))`

// PurgeUser deletes the user's posts and removes their likes and comments
// from the remaining posts in one transaction.
func (r *PGRepository) PurgeUser(ctx context.Context, userID string) (PurgeResult, error) {
	var res PurgeResult
	if _, err := uuid.Parse(userID); err != nil {
		return res, nil
	}
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}
		res.PostsDeleted = tag.RowsAffected()

		tag, err = tx.Exec(ctx, stripUser, userID)
		if err != nil {
			return fmt.Errorf("strip likes and comments: %w", err)
		}
		res.PostsUpdated = tag.RowsAffected()
		return nil
	})
	return res, err
}

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	if err := row.Scan(&p.ID, &p.User, &p.Text, &p.Name, &p.Avatar, &p.Likes, &p.Comments, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Likes = nonNil(p.Likes)
	p.Comments = nonNil(p.Comments)
	return &p, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

var _ Repository = (*PGRepository)(nil)
