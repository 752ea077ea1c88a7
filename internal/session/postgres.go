package session

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Name returns the backend name.
func (*PostgresStore) Name() string { return BackendPostgres }

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// Load returns the stored keys for id.
func (s *PostgresStore) Load(ctx context.Context, id string) (Snapshot, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT key, value::text FROM session_entries WHERE session_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying session %s: %w", id, err)
	}
	defer rows.Close()

	snap := Snapshot{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning session %s: %w", id, err)
		}
		snap[key] = []byte(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session %s: %w", id, err)
	}
	return snap, nil
}

// Save replaces every stored key of id in one transaction.
func (s *PostgresStore) Save(ctx context.Context, id string, snap Snapshot) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM session_entries WHERE session_id = $1`, id); err != nil {
			return fmt.Errorf("clearing session %s: %w", id, err)
		}

		now := time.Now().UTC()
		batch := &pgx.Batch{}
		for k, v := range snap.Persistable() {
			batch.Queue(`
				INSERT INTO session_entries (session_id, key, value, updated_at)
				VALUES (@session_id, @key, @value::jsonb, @updated_at)`,
				pgx.NamedArgs{
					"session_id": id,
					"key":        k,
					"value":      string(v),
					"updated_at": now,
				},
			)
		}
		if batch.Len() == 0 {
			return nil
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("saving session %s: %w", id, err)
		}
		return nil
	})
}

// Delete removes every key of id.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM session_entries WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}
