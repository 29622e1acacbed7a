package profiles

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

// PGRepository implements Repository using PostgreSQL. List fields are
// stored as JSONB arrays.
type PGRepository struct {
	db dbtx
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

const selectProfile = `SELECT p.id::text, p.user_id::text, u.name, u.avatar, p.company, p.website, p.location,
	p.status, p.skills, p.bio, p.github_username, p.social, p.experience, p.education, p.created_at
FROM profiles p JOIN users u ON u.id = p.user_id`

// FindByUser fetches the profile owned by userID.
func (r *PGRepository) FindByUser(ctx context.Context, userID string) (*Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrNotFound
	}
	return scanProfile(r.db.QueryRow(ctx, selectProfile+` WHERE p.user_id = $1`, userID))
}

// List returns all profiles, oldest first.
func (r *PGRepository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.db.Query(ctx, selectProfile+` ORDER BY p.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Upsert inserts the profile or merges it into the existing one for the
// same user.
func (r *PGRepository) Upsert(ctx context.Context, p *Profile) error {
	_, err := r.db.Exec(ctx, `INSERT INTO profiles
	(id, user_id, company, website, location, status, skills, bio, github_username, social, experience, education, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '[]'::jsonb, '[]'::jsonb, $11)
ON CONFLICT (user_id) DO UPDATE SET
	company = COALESCE(NULLIF(EXCLUDED.company, ''), profiles.company),
	website = COALESCE(NULLIF(EXCLUDED.website, ''), profiles.website),
	location = COALESCE(NULLIF(EXCLUDED.location, ''), profiles.location),
	status = EXCLUDED.status,
	skills = EXCLUDED.skills,
	bio = COALESCE(NULLIF(EXCLUDED.bio, ''), profiles.bio),
	github_username = COALESCE(NULLIF(EXCLUDED.github_username, ''), profiles.github_username),
	social = EXCLUDED.social`,
		p.ID, p.User.ID, p.Company, p.Website, p.Location, p.Status, p.Skills, p.Bio, p.GitHubUsername, p.Social, p.CreatedAt,
	)
	return err
}

// Update locks the profile row, applies fn and writes back the list fields.
func (r *PGRepository) Update(ctx context.Context, userID string, fn func(*Profile) error) (*Profile, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrNotFound
	}
	var out *Profile
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		p, err := scanProfile(tx.QueryRow(ctx, selectProfile+` WHERE p.user_id = $1 FOR UPDATE OF p`, userID))
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE profiles SET experience = $2, education = $3 WHERE id = $1`,
			p.ID, nonNil(p.Experience), nonNil(p.Education)); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		out = p
		return nil
	})
	return out, err
}

// DeleteAccount removes the profile and the user in one transaction.
func (r *PGRepository) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return nil
	}
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.User.ID, &p.User.Name, &p.User.Avatar, &p.Company, &p.Website, &p.Location,
		&p.Status, &p.Skills, &p.Bio, &p.GitHubUsername, &p.Social, &p.Experience, &p.Education, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Skills = nonNil(p.Skills)
	p.Experience = nonNil(p.Experience)
	p.Education = nonNil(p.Education)
	return &p, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

var _ Repository = (*PGRepository)(nil)
