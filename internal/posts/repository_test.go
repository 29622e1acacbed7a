package posts

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

// fakeDB records statements and answers Exec with the queued command tags.
// Transactions share the same log.
type fakeDB struct {
	calls      []execCall
	tags       []string
	failAt     int
	committed  bool
	rolledBack bool
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	n := len(f.calls)
	if f.failAt == n {
		return pgconn.CommandTag{}, assert.AnError
	}
	if n > len(f.tags) {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	return pgconn.NewCommandTag(f.tags[n-1]), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (f *fakeDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	return &fakeTx{db: f}, nil
}

type fakeTx struct {
	pgx.Tx
	db *fakeDB
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	t.db.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.db.committed {
		t.db.rolledBack = true
	}
	return nil
}

const purgedUser = "0b8e8d3c-2a55-4d8f-bb7a-9b6f1f0e5c11"

func TestPGRepositoryPurgeUser(t *testing.T) {
	fake := &fakeDB{tags: []string{"DELETE 2", "UPDATE 3"}}
	repo := &PGRepository{db: fake}

	res, err := repo.PurgeUser(context.Background(), purgedUser)
	require.NoError(t, err)
	assert.Equal(t, PurgeResult{PostsDeleted: 2, PostsUpdated: 3}, res)
	assert.True(t, fake.committed)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, `DELETE FROM posts WHERE user_id = $1`, fake.calls[0].sql)
	assert.Equal(t, []any{purgedUser}, fake.calls[0].args)
	assert.Equal(t, stripUser, fake.calls[1].sql)
	assert.Equal(t, []any{purgedUser}, fake.calls[1].args)
}

func TestPGRepositoryPurgeUserRollsBack(t *testing.T) {
	fake := &fakeDB{tags: []string{"DELETE 2"}, failAt: 2}
	repo := &PGRepository{db: fake}

	_, err := repo.PurgeUser(context.Background(), purgedUser)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "strip likes and comments")
	assert.False(t, fake.committed)
	assert.True(t, fake.rolledBack)
}

func TestPGRepositoryPurgeUserIgnoresMalformedID(t *testing.T) {
	fake := &fakeDB{}
	repo := &PGRepository{db: fake}

	res, err := repo.PurgeUser(context.Background(), "ann-id")
	require.NoError(t, err)
	assert.Zero(t, res)
	assert.Empty(t, fake.calls)
}

func TestPGRepositoryDelete(t *testing.T) {
	fake := &fakeDB{tags: []string{"DELETE 1", "DELETE 0"}}
	repo := &PGRepository{db: fake}

	require.NoError(t, repo.Delete(context.Background(), purgedUser))
	assert.ErrorIs(t, repo.Delete(context.Background(), purgedUser), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), ErrNotFound)
	assert.Len(t, fake.calls, 2)
}
