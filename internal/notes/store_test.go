package notes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	mock.ExpectPrepare("SELECT id, owner, title, text, slug, created_at FROM notes WHERE owner =")
	mock.ExpectPrepare("UPDATE notes SET")
	mock.ExpectPrepare("DELETE FROM notes WHERE owner =")

	repo, err := NewRepository(context.Background(), mockDB)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo, mock
}

func noteRows(n Note) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner", "title", "text", "slug", "created_at"}).
		AddRow(n.ID, n.Owner, n.Title, n.Text, n.Slug, n.CreatedAt)
}

func dupSlugErr() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "notes_slug_key"}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepo(t)
	want := Note{ID: 1, Owner: "alice", Title: "t", Text: "x", Slug: "test-note", CreatedAt: time.Unix(1, 0).UTC()}

	mock.ExpectQuery("INSERT INTO notes").
		WithArgs("alice", "t", "x", "test-note").
		WillReturnRows(noteRows(want))

	got, err := repo.Create(context.Background(), "alice", "t", "x", "test-note")
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_DuplicateSlug(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO notes").
		WithArgs("bob", "other", "y", "test-note").
		WillReturnError(dupSlugErr())

	_, err := repo.Create(context.Background(), "bob", "other", "y", "test-note")
	require.ErrorIs(t, err, ErrDuplicateSlug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByOwnerAndSlug(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newRepo(t)
		want := Note{ID: 2, Owner: "alice", Title: "t", Text: "x", Slug: "test-note", CreatedAt: time.Unix(2, 0).UTC()}

		mock.ExpectQuery("SELECT id, owner, title, text, slug, created_at FROM notes WHERE owner =").
			WithArgs("alice", "test-note").
			WillReturnRows(noteRows(want))

		got, err := repo.GetByOwnerAndSlug(context.Background(), "alice", "test-note")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	// The same miss covers "does not exist" and "belongs to another owner";
	// the query never distinguishes them.
	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery("SELECT id, owner, title, text, slug, created_at FROM notes WHERE owner =").
			WithArgs("bob", "test-note").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByOwnerAndSlug(context.Background(), "bob", "test-note")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepository_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newRepo(t)
		want := Note{ID: 3, Owner: "alice", Title: "t2", Text: "x2", Slug: "new-slug", CreatedAt: time.Unix(3, 0).UTC()}

		mock.ExpectQuery("UPDATE notes SET").
			WithArgs("alice", "test-note", "t2", "x2", "new-slug").
			WillReturnRows(noteRows(want))

		got, err := repo.Update(context.Background(), "alice", "test-note", "t2", "x2", "new-slug")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery("UPDATE notes SET").
			WithArgs("bob", "test-note", "t2", "x2", "test-note").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(context.Background(), "bob", "test-note", "t2", "x2", "test-note")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("new slug taken by another note", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery("UPDATE notes SET").
			WithArgs("alice", "test-note", "t2", "x2", "taken-slug").
			WillReturnError(dupSlugErr())

		_, err := repo.Update(context.Background(), "alice", "test-note", "t2", "x2", "taken-slug")
		require.ErrorIs(t, err, ErrDuplicateSlug)
	})
}

func TestRepository_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec("DELETE FROM notes WHERE owner =").
			WithArgs("alice", "test-note").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), "alice", "test-note"))
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec("DELETE FROM notes WHERE owner =").
			WithArgs("bob", "test-note").
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, repo.Delete(context.Background(), "bob", "test-note"), ErrNotFound)
	})
}

func TestRepository_ListByOwner(t *testing.T) {
	repo, mock := newRepo(t)
	fixed := time.Unix(4, 0).UTC()

	rows := sqlmock.NewRows([]string{"id", "owner", "title", "text", "slug", "created_at"}).
		AddRow(int64(2), "alice", "b", "", "b-note", fixed).
		AddRow(int64(1), "alice", "a", "", "a-note", fixed)

	mock.ExpectQuery("SELECT id, owner, title, text, slug, created_at FROM notes WHERE owner =").
		WithArgs("alice").
		WillReturnRows(rows)

	items, err := repo.ListByOwner(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "b-note", items[0].Slug)
	require.Equal(t, "a-note", items[1].Slug)
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(dupSlugErr()))
	require.False(t, isUniqueViolation(errors.New("boom")))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, isUniqueViolation(nil))
}
