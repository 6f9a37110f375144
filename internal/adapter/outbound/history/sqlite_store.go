// Package history persists the client's local mutation history in a
// sqlite database. The history is bounded: oldest records are evicted
// once the configured cap is exceeded.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/placefeed/placefeed/internal/domain/history"
)

// DefaultMaxEntries is the record cap when the config does not set one.
const DefaultMaxEntries = 1000

const schema = `
CREATE TABLE IF NOT EXISTS mutations (
	id      TEXT PRIMARY KEY,
	at      INTEGER NOT NULL,
	op      TEXT NOT NULL,
	subject TEXT NOT NULL,
	detail  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS mutations_at ON mutations (at DESC);
`

// SQLiteStore implements history.Store on a local sqlite file.
type SQLiteStore struct {
	db         *sql.DB
	maxEntries int
	logger     *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the history database at path.
func NewSQLiteStore(path string, maxEntries int, logger *slog.Logger) (*SQLiteStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// The CLI is single-actor; one connection avoids sqlite busy errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &SQLiteStore{
		db:         db,
		maxEntries: maxEntries,
		logger:     logger,
	}, nil
}

// Append stores a record and evicts the oldest records beyond the cap.
func (s *SQLiteStore) Append(ctx context.Context, rec history.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mutations (id, at, op, subject, detail) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.At.UnixNano(), string(rec.Op), rec.Subject, rec.Detail,
	)
	if err != nil {
		return fmt.Errorf("append history record: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM mutations WHERE id NOT IN
			(SELECT id FROM mutations ORDER BY at DESC, id LIMIT ?)`,
		s.maxEntries,
	)
	if err != nil {
		return fmt.Errorf("evict history records: %w", err)
	}
	if evicted, _ := res.RowsAffected(); evicted > 0 {
		s.logger.Debug("evicted history records", "count", evicted)
	}

	return nil
}

// List returns up to limit records, newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]history.Record, error) {
	if limit <= 0 || limit > s.maxEntries {
		limit = s.maxEntries
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, op, subject, detail FROM mutations ORDER BY at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history records: %w", err)
	}
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		var rec history.Record
		var at int64
		var op string
		if err := rows.Scan(&rec.ID, &at, &op, &rec.Subject, &rec.Detail); err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		rec.At = time.Unix(0, at).UTC()
		rec.Op = history.Op(op)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history records: %w", err)
	}

	return records, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
