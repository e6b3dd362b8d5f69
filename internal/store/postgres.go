package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore is the shared document store used when several tools need
// the same run documents.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to postgres and ensures the documents table.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres store: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id         TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Load retrieves a document body by id.
func (s *PostgresStore) Load(ctx context.Context, id string) (json.RawMessage, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = $1`, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return json.RawMessage(body), nil
}

// Save upserts a document body under id.
func (s *PostgresStore) Save(ctx context.Context, id string, body json.RawMessage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, body, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
		id, []byte(body))
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping checks connectivity, used by the CLI ping command.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
