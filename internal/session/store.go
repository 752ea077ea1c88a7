// Package session persists listing sessions as key/value snapshots.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// ErrInvalidID is returned for session IDs that are not ULIDs.
var ErrInvalidID = errors.New("invalid session id")

// Store persists session snapshots. Loading a session that was never
// saved returns an empty snapshot and no error.
type Store interface {
	Load(ctx context.Context, id string) (Snapshot, error)
	Save(ctx context.Context, id string, snap Snapshot) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
	Name() string
}

// Config selects and configures a Store backend.
type Config struct {
	Backend     string
	Dir         string
	SQLitePath  string
	PostgresDSN string
}

// Open creates the Store named by cfg.Backend and applies its schema.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.Dir)
	case BackendSQLite:
		s, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case BackendPostgres:
		s, err := NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

// ValidateID checks that id is a canonical ULID.
func ValidateID(id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidID, id, err)
	}
	return nil
}
