package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

const snapshotSchema = `CREATE TABLE IF NOT EXISTS registration_snapshots (
    key        TEXT PRIMARY KEY,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

type snapshotRow struct {
	Key       string    `db:"key"`
	Payload   []byte    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PostgresStore keeps each key as one row of registration_snapshots.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs the store.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the snapshot table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("create registration_snapshots: %w", err)
	}
	return nil
}

// Get returns the payload stored under key or ErrStoreMiss.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT key, payload, updated_at FROM registration_snapshots WHERE key = $1`
	var row snapshotRow
	if err := s.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrStoreMiss
		}
		return nil, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	return row.Payload, nil
}

// Set upserts the payload stored under key.
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	const query = `INSERT INTO registration_snapshots (key, payload, updated_at)
VALUES (:key, :payload, :updated_at)
ON CONFLICT (key)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	row := snapshotRow{Key: key, Payload: value, UpdatedAt: time.Now().UTC()}
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Name identifies the driver.
func (s *PostgresStore) Name() string { return "postgres" }

// Close releases the pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
