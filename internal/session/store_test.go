package session_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-listing-creator/internal/session"
)

func newID() string {
	return ulid.Make().String()
}

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s session.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing session loads empty", func(t *testing.T) {
		snap, err := s.Load(ctx, newID())
		require.NoError(t, err)
		assert.Empty(t, snap)
	})

	t.Run("round trip drops transient keys", func(t *testing.T) {
		id := newID()
		snap := session.Snapshot{}
		require.NoError(t, snap.Put("title", "iPhone 15"))
		require.NoError(t, snap.Put("price", 799.5))
		require.NoError(t, snap.Put("authorized", true))
		require.NoError(t, snap.Put("images", [][]byte{{0x00, 0xff, 0x10}}))
		require.NoError(t, snap.Put("category", map[string]string{"category_id": "9355"}))
		require.NoError(t, snap.Put("_last_listing", map[string]any{"sku": "x"}))

		require.NoError(t, s.Save(ctx, id, snap))

		got, err := s.Load(ctx, id)
		require.NoError(t, err)
		assert.NotContains(t, got, "_last_listing")
		assert.Len(t, got, 5)

		var title string
		ok, err := got.Get("title", &title)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "iPhone 15", title)

		var price float64
		_, err = got.Get("price", &price)
		require.NoError(t, err)
		assert.InDelta(t, 799.5, price, 0)

		var images [][]byte
		_, err = got.Get("images", &images)
		require.NoError(t, err)
		assert.Equal(t, [][]byte{{0x00, 0xff, 0x10}}, images)

		assert.JSONEq(t, `{"category_id":"9355"}`, string(got["category"]))
	})

	t.Run("save replaces previous keys", func(t *testing.T) {
		id := newID()
		first := session.Snapshot{"a": json.RawMessage(`1`), "b": json.RawMessage(`2`)}
		require.NoError(t, s.Save(ctx, id, first))

		second := session.Snapshot{"b": json.RawMessage(`3`)}
		require.NoError(t, s.Save(ctx, id, second))

		got, err := s.Load(ctx, id)
		require.NoError(t, err)
		assert.NotContains(t, got, "a")
		assert.JSONEq(t, `3`, string(got["b"]))
	})

	t.Run("delete", func(t *testing.T) {
		id := newID()
		require.NoError(t, s.Save(ctx, id, session.Snapshot{"a": json.RawMessage(`1`)}))
		require.NoError(t, s.Delete(ctx, id))

		got, err := s.Load(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := s.Load(ctx, "../etc/passwd")
		require.ErrorIs(t, err, session.ErrInvalidID)
		require.ErrorIs(t, s.Save(ctx, "nope", session.Snapshot{}), session.ErrInvalidID)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	s := session.NewMemoryStore()
	assert.Equal(t, "memory", s.Name())
	exerciseStore(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := session.NewFileStore(filepath.Join(t.TempDir(), "sessions"))
	require.NoError(t, err)
	assert.Equal(t, "file", s.Name())
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := session.NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate())
	require.NoError(t, s.Migrate(), "migrating twice is a no-op")

	assert.Equal(t, "sqlite", s.Name())
	exerciseStore(t, s)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	id := newID()

	first, err := session.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(context.Background(), id, session.Snapshot{"k": json.RawMessage(`"v"`)}))

	second, err := session.NewFileStore(dir)
	require.NoError(t, err)
	got, err := second.Load(context.Background(), id)
	require.NoError(t, err)
	assert.JSONEq(t, `"v"`, string(got["k"]))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFileStore_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := session.NewFileStore(dir)
	require.NoError(t, err)

	id := newID()
	require.NoError(t, writeFile(filepath.Join(dir, id+".json"), "{not json"))

	_, err = s.Load(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing session")
}

func TestOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      session.Config
		wantName string
		wantErr  string
	}{
		{
			name:     "default is file",
			cfg:      session.Config{Dir: t.TempDir()},
			wantName: "file",
		},
		{
			name:     "memory",
			cfg:      session.Config{Backend: "memory"},
			wantName: "memory",
		},
		{
			name:     "sqlite migrates",
			cfg:      session.Config{Backend: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "s.db")},
			wantName: "sqlite",
		},
		{
			name:    "file without dir",
			cfg:     session.Config{Backend: "file"},
			wantErr: "directory is required",
		},
		{
			name:    "unknown backend",
			cfg:     session.Config{Backend: "redis"},
			wantErr: `unknown session backend "redis"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := session.Open(context.Background(), tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			assert.Equal(t, tt.wantName, s.Name())
		})
	}
}
