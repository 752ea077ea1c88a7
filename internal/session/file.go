package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore writes one JSON document per session into a directory.
// Writes go to a temporary file that is renamed into place.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a FileStore rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file session store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Name returns the backend name.
func (*FileStore) Name() string { return BackendFile }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Load reads the snapshot for id. A missing file is an empty snapshot.
func (s *FileStore) Load(_ context.Context, id string) (Snapshot, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}

	snap := Snapshot{}
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", id, err)
	}
	return snap, nil
}

// Save writes the persistable keys of snap for id.
func (s *FileStore) Save(_ context.Context, id string, snap Snapshot) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap.Persistable(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing session %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing session %s: %w", id, err)
	}

	if err := os.Rename(tmpName, s.path(id)); err != nil {
		return fmt.Errorf("replacing session %s: %w", id, err)
	}
	return nil
}

// Delete removes the file for id, if present.
func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// Ping checks that the directory is still there.
func (s *FileStore) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("session directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("session directory %s is not a directory", s.dir)
	}
	return nil
}

// Close is a no-op.
func (*FileStore) Close() error { return nil }
