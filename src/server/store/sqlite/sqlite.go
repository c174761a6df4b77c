package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

//go:embed migrations/001_initial.sql
var migrationSQL string

// SQLiteStore keeps every collection in one documents table, one row per key.
type SQLiteStore struct {
	db *sql.DB
}

func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite performs best with a single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Migrate() error {
	if _, err := s.db.Exec(migrationSQL); err != nil {
		return fmt.Errorf("running migration: %w", err)
	}
	slog.Info("SQLite migration completed")
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, body FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, body string
		if err := rows.Scan(&key, &body); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", collection, err)
		}
		docs[key] = json.RawMessage(body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", collection, err)
	}
	return docs, nil
}

// Save replaces the collection inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, collection string, docs map[string]json.RawMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("clearing %s: %w", collection, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (collection, key, body) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for key, body := range docs {
		if _, err := stmt.ExecContext(ctx, collection, key, string(body)); err != nil {
			return fmt.Errorf("inserting %s/%s: %w", collection, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tx: %w", err)
	}
	return nil
}
