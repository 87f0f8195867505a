package db

import (
	"context"
	"database/sql"
)

// Slug uniqueness is global, not per owner: the unique index is the single
// arbiter between concurrent writers, so an insert or update never needs a
// separate existence check.
const schema = `
CREATE TABLE IF NOT EXISTS notes (
	id         BIGSERIAL   PRIMARY KEY,
	owner      TEXT        NOT NULL,
	title      TEXT        NOT NULL,
	text       TEXT        NOT NULL DEFAULT '',
	slug       TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS notes_slug_key ON notes (slug);

CREATE INDEX IF NOT EXISTS notes_owner_idx ON notes (owner, created_at DESC, id DESC);
`

// EnsureSchema creates the notes table and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
