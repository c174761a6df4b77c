package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

//go:embed migrations/001_initial.sql
var migrationSQL string

// PostgresStore keeps every collection in one documents table with JSONB bodies.
type PostgresStore struct {
	db *sql.DB
}

func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an already opened database handle.
func NewWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Migrate() error {
	if _, err := s.db.Exec(migrationSQL); err != nil {
		return fmt.Errorf("running migration: %w", err)
	}
	slog.Info("Database migration completed")
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Load(ctx context.Context, collection string) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, body FROM documents WHERE collection = $1`, collection)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var body []byte
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

// Save replaces the collection inside one transaction. The collection's
// existing rows are locked first so concurrent writers from other processes
// queue behind each other.
func (s *PostgresStore) Save(ctx context.Context, collection string, docs map[string]json.RawMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, collection); err != nil {
		return fmt.Errorf("locking %s: %w", collection, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("clearing %s: %w", collection, err)
	}
	for key, body := range docs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (collection, key, body) VALUES ($1, $2, $3)`,
			collection, key, string(body),
		); err != nil {
			return fmt.Errorf("inserting %s/%s: %w", collection, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tx: %w", err)
	}
	return nil
}
