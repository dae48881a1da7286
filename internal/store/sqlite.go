package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteBackend stores records in a single SQLite table
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and configures WAL mode
func NewSQLite(dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteBackend{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS records (
	bucket     TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (bucket, id)
);
`

// Migrate creates the schema if needed
func (s *SQLiteBackend) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteBackend) Put(ctx context.Context, bucket, id string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (bucket, id, data, updated_at) VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT(bucket, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		bucket, id, data,
	)
	return eris.Wrapf(err, "sqlite: put %s/%s", bucket, id)
}

func (s *SQLiteBackend) Get(ctx context.Context, bucket, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE bucket = ? AND id = ?`, bucket, id,
	).Scan(&data)
	if eris.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: %s/%s", bucket, id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get %s/%s", bucket, id)
	}
	return data, nil
}

func (s *SQLiteBackend) List(ctx context.Context, bucket string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM records WHERE bucket = ? ORDER BY id`, bucket,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list %s", bucket)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Data); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", bucket)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "sqlite: list %s", bucket)
	}
	// SQLite orders by collation; keep the byte order other backends use
	sortEntries(entries)
	return entries, nil
}

func (s *SQLiteBackend) Reset(ctx context.Context, bucket string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE bucket = ?`, bucket)
	return eris.Wrapf(err, "sqlite: reset %s", bucket)
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
