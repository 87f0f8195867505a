package notes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound covers both a missing note and a note owned by someone
	// else: every query is owner-scoped, so the two are the same code path.
	ErrNotFound = errors.New("note not found")

	// ErrDuplicateSlug is returned when a write loses to the unique index.
	ErrDuplicateSlug = errors.New("slug already in use")
)

type Repository struct {
	db *sql.DB

	stmtGet    *sql.Stmt
	stmtUpdate *sql.Stmt
	stmtDelete *sql.Stmt
}

func NewRepository(ctx context.Context, db *sql.DB) (*Repository, error) {
	get, err := db.PrepareContext(ctx, `
		SELECT id, owner, title, text, slug, created_at
		FROM notes
		WHERE owner = $1 AND slug = $2
	`)
	if err != nil {
		return nil, err
	}

	upd, err := db.PrepareContext(ctx, `
		UPDATE notes
		SET title = $3, text = $4, slug = $5
		WHERE owner = $1 AND slug = $2
		RETURNING id, owner, title, text, slug, created_at
	`)
	if err != nil {
		return nil, err
	}

	del, err := db.PrepareContext(ctx, `DELETE FROM notes WHERE owner = $1 AND slug = $2`)
	if err != nil {
		return nil, err
	}

	return &Repository{
		db:         db,
		stmtGet:    get,
		stmtUpdate: upd,
		stmtDelete: del,
	}, nil
}

func (r *Repository) Close() error {
	for _, s := range []*sql.Stmt{r.stmtGet, r.stmtUpdate, r.stmtDelete} {
		if s != nil {
			_ = s.Close()
		}
	}
	return nil
}

// Create inserts a note. The insert and the slug-uniqueness check are one
// statement, so two concurrent creates with the same slug cannot both win.
func (r *Repository) Create(ctx context.Context, owner, title, text, slug string) (Note, error) {
	var n Note
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO notes (owner, title, text, slug) VALUES ($1, $2, $3, $4)
		RETURNING id, owner, title, text, slug, created_at
	`, owner, title, text, slug).Scan(&n.ID, &n.Owner, &n.Title, &n.Text, &n.Slug, &n.CreatedAt)
	if isUniqueViolation(err) {
		return Note{}, ErrDuplicateSlug
	}
	if err != nil {
		return Note{}, err
	}
	return n, nil
}

func (r *Repository) ListByOwner(ctx context.Context, owner string) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner, title, text, slug, created_at
		FROM notes
		WHERE owner = $1
		ORDER BY created_at DESC, id DESC
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

func (r *Repository) GetByOwnerAndSlug(ctx context.Context, owner, slug string) (Note, error) {
	var n Note
	err := r.stmtGet.QueryRowContext(ctx, owner, slug).Scan(&n.ID, &n.Owner, &n.Title, &n.Text, &n.Slug, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	if err != nil {
		return Note{}, err
	}
	return n, nil
}

// Update rewrites title, text and slug of the owner's note in one statement.
// Setting the slug to its current value never conflicts with itself; a clash
// with a different row surfaces as ErrDuplicateSlug.
func (r *Repository) Update(ctx context.Context, owner, slug, newTitle, newText, newSlug string) (Note, error) {
	var n Note
	err := r.stmtUpdate.QueryRowContext(ctx, owner, slug, newTitle, newText, newSlug).
		Scan(&n.ID, &n.Owner, &n.Title, &n.Text, &n.Slug, &n.CreatedAt)
	if isUniqueViolation(err) {
		return Note{}, ErrDuplicateSlug
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	if err != nil {
		return Note{}, err
	}
	return n, nil
}

func (r *Repository) Delete(ctx context.Context, owner, slug string) error {
	res, err := r.stmtDelete.ExecContext(ctx, owner, slug)
	if err != nil {
		return err
	}
	a, _ := res.RowsAffected()
	if a == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanNotes(rows *sql.Rows) ([]Note, error) {
	out := make([]Note, 0, 32)
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Owner, &n.Title, &n.Text, &n.Slug, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
