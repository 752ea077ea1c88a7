package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/donaldgifford/ebay-listing-creator/internal/session/migrations"
)

// SQLiteStore keeps one row per session key in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at dsn. Call Migrate before use.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, errors.New("sqlite session store: path is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configuring sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Name returns the backend name.
func (*SQLiteStore) Name() string { return BackendSQLite }

// Migrate applies pending schema migrations.
func (s *SQLiteStore) Migrate() error {
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}

	src, err := iofs.New(migrations.SQLite, "sqlite")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Load returns the stored keys for id.
func (s *SQLiteStore) Load(ctx context.Context, id string) (Snapshot, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM session_entries WHERE session_id = ?`, id)
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
func (s *SQLiteStore) Save(ctx context.Context, id string, snap Snapshot) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_entries WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("clearing session %s: %w", id, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO session_entries (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for k, v := range snap.Persistable() {
		if _, err := stmt.ExecContext(ctx, id, k, string(v), now); err != nil {
			return fmt.Errorf("saving %s/%s: %w", id, k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session %s: %w", id, err)
	}
	return nil
}

// Delete removes every key of id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM session_entries WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// Ping verifies the database connection is still alive.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
