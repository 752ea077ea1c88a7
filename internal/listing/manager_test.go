package listing_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
	"github.com/donaldgifford/ebay-listing-creator/internal/session"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestManager_EvictIdle(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := session.NewMemoryStore()
	m := listing.NewManager(store,
		listing.WithIdleTTL(10*time.Minute),
		listing.WithManagerNowFunc(clock.Now),
		listing.WithManagerLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	ctx := context.Background()

	idle, err := m.Create(ctx, ebay.Sandbox)
	require.NoError(t, err)
	clock.Advance(8 * time.Minute)

	busy, err := m.Create(ctx, ebay.Production)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, m.EvictIdle())
	assert.Equal(t, 1, m.Len())

	// Evicted sessions reload from the store on next use.
	require.NoError(t, m.With(ctx, idle, func(s *listing.Session) error {
		assert.Equal(t, ebay.Sandbox, s.Environment)
		return nil
	}))
	assert.Equal(t, 2, m.Len())

	// A session held by a caller is never evicted.
	clock.Advance(time.Hour)
	require.NoError(t, m.With(ctx, busy, func(*listing.Session) error {
		clock.Advance(time.Hour)
		assert.Equal(t, 1, m.EvictIdle())
		return nil
	}))
	assert.Equal(t, 1, m.Len())
}

func TestManager_WithPropagatesError(t *testing.T) {
	t.Parallel()

	m := listing.NewManager(session.NewMemoryStore())
	id, err := m.Create(context.Background(), "")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = m.With(context.Background(), id, func(s *listing.Session) error {
		assert.Equal(t, ebay.Sandbox, s.Environment, "default environment")
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestManager_SerializesAccess(t *testing.T) {
	t.Parallel()

	m := listing.NewManager(session.NewMemoryStore())
	ctx := context.Background()
	id, err := m.Create(ctx, "")
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			_ = m.With(ctx, id, func(s *listing.Session) error {
				s.Draft.Quantity++
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, m.With(ctx, id, func(s *listing.Session) error {
		assert.Equal(t, 1+workers, s.Draft.Quantity)
		return nil
	}))
}

type failingStore struct {
	*session.MemoryStore
}

func (failingStore) Save(context.Context, string, session.Snapshot) error {
	return errors.New("disk full")
}

func TestManager_SaveError(t *testing.T) {
	t.Parallel()

	m := listing.NewManager(failingStore{session.NewMemoryStore()})
	_, err := m.Create(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, m.Len())
}

func TestJanitor(t *testing.T) {
	t.Parallel()

	m := listing.NewManager(session.NewMemoryStore())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	j, err := listing.NewJanitor(m, 5*time.Minute, log)
	require.NoError(t, err)
	assert.Len(t, j.Entries(), 1)

	j.Start()
	<-j.Stop().Done()
}
