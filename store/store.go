// Package store keeps the relational records behind the admin API: books,
// their pages' storage coordinates and reading analytics events.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS books (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	author         TEXT NOT NULL DEFAULT '',
	subject        TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	grade_level    INTEGER NOT NULL DEFAULT 0,
	language       TEXT NOT NULL DEFAULT 'en',
	published_by   TEXT NOT NULL DEFAULT '',
	year_published INTEGER NOT NULL DEFAULT 0,
	status         TEXT NOT NULL DEFAULT 'draft',
	review_status  TEXT NOT NULL DEFAULT 'pending',
	reviewer_notes TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pages (
	book_id             TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
	number              INTEGER NOT NULL,
	image_key           TEXT NOT NULL DEFAULT '',
	manifest_normal_key TEXT NOT NULL DEFAULT '',
	manifest_slow_key   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (book_id, number)
);

CREATE TABLE IF NOT EXISTS audio_files (
	book_id     TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
	page_number INTEGER NOT NULL,
	speed       TEXT NOT NULL,
	ordinal     TEXT NOT NULL,
	object_key  TEXT NOT NULL,
	PRIMARY KEY (book_id, page_number, speed, ordinal)
);

CREATE TABLE IF NOT EXISTS analytics (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	book_id     TEXT NOT NULL,
	event       TEXT NOT NULL,
	page_number INTEGER NOT NULL DEFAULT 0,
	session_id  TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS analytics_book_event ON analytics(book_id, event);
`

// Store is a pooled connection to the record database.
type Store struct {
	pool *sqlitex.Pool
	log  *zap.Logger
}

// Open creates (if necessary) and opens the record database at path.
func Open(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		Flags: sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL,
		PrepareConn: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = ON;", nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open record database %s: %w", path, err)
	}

	s := &Store{pool: pool, log: log}
	if err := s.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("unable to get database connection: %w", err)
	}
	defer s.pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("unable to apply database schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.pool.Close()
}

// withConn runs f with a pooled connection.
func (s *Store) withConn(ctx context.Context, f func(conn *sqlite.Conn) error) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("unable to get database connection: %w", err)
	}
	defer s.pool.Put(conn)
	return f(conn)
}
