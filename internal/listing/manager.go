package listing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/metrics"
	"github.com/donaldgifford/ebay-listing-creator/internal/session"
)

const defaultIdleTTL = 30 * time.Minute

// Manager owns the in-memory sessions and serializes access to each one.
// Sessions are loaded lazily from the Store and written back after every
// mutating step.
type Manager struct {
	store      session.Store
	newTokens  func() *ebay.TokenStore
	defaultEnv ebay.Environment
	idleTTL    time.Duration
	now        func() time.Time
	log        *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu       sync.Mutex
	sess     *Session
	lastUsed time.Time
	evicted  bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTokenStoreFactory sets how each session's TokenStore is built.
func WithTokenStoreFactory(f func() *ebay.TokenStore) ManagerOption {
	return func(m *Manager) {
		m.newTokens = f
	}
}

// WithDefaultEnvironment sets the environment of new sessions.
func WithDefaultEnvironment(env ebay.Environment) ManagerOption {
	return func(m *Manager) {
		m.defaultEnv = env
	}
}

// WithIdleTTL sets how long an unused session stays in memory.
func WithIdleTTL(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.idleTTL = d
	}
}

// WithManagerNowFunc overrides the clock. Used in tests.
func WithManagerNowFunc(f func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = f
	}
}

// WithManagerLogger sets a custom logger.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = l
	}
}

// NewManager creates a Manager backed by store.
func NewManager(store session.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		newTokens:  func() *ebay.TokenStore { return ebay.NewTokenStore() },
		defaultEnv: ebay.Sandbox,
		idleTTL:    defaultIdleTTL,
		now:        time.Now,
		log:        slog.Default(),
		entries:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session, persists it and returns its ID.
func (m *Manager) Create(ctx context.Context, env ebay.Environment) (string, error) {
	if env == "" {
		env = m.defaultEnv
	}
	if !env.Valid() {
		return "", fmt.Errorf("%w %q", ebay.ErrUnknownEnvironment, env)
	}

	id := ulid.Make().String()
	s := newSession(id, env, m.newTokens())

	if err := m.Save(ctx, s); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.entries[id] = &entry{sess: s, lastUsed: m.now()}
	metrics.SessionsActive.Set(float64(len(m.entries)))
	m.mu.Unlock()

	m.log.Info("session created", "session", id, "environment", env)
	return id, nil
}

// With runs fn while holding the lock of session id, loading it first if
// it is not in memory. Unknown IDs return ErrSessionNotFound.
func (m *Manager) With(ctx context.Context, id string, fn func(*Session) error) error {
	if err := session.ValidateID(id); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	}

	for {
		e := m.acquire(id)

		e.mu.Lock()
		if e.evicted {
			// Lost a race with the janitor; take the fresh entry.
			e.mu.Unlock()
			continue
		}

		if e.sess == nil {
			s, err := m.load(ctx, id)
			if err != nil {
				e.mu.Unlock()
				m.forget(id, e)
				return err
			}
			e.sess = s
		}

		err := fn(e.sess)
		e.mu.Unlock()
		return err
	}
}

func (m *Manager) acquire(id string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		e = &entry{}
		m.entries[id] = e
		metrics.SessionsActive.Set(float64(len(m.entries)))
	}
	e.lastUsed = m.now()
	return e
}

func (m *Manager) forget(id string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[id] == e {
		delete(m.entries, id)
		metrics.SessionsActive.Set(float64(len(m.entries)))
	}
}

func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	snap, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	if len(snap) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s := newSession(id, m.defaultEnv, m.newTokens())
	if err := s.restore(snap); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes s to the Store.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = m.now().UTC()

	snap, err := s.snapshot()
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", s.ID, err)
	}

	if err := m.store.Save(ctx, s.ID, snap); err != nil {
		metrics.SessionSavesTotal.WithLabelValues(m.store.Name(), "error").Inc()
		return fmt.Errorf("saving session %s: %w", s.ID, err)
	}
	metrics.SessionSavesTotal.WithLabelValues(m.store.Name(), "success").Inc()
	return nil
}

// Delete removes session id from memory and from the Store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := session.ValidateID(id); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	}

	m.mu.Lock()
	e, ok := m.entries[id]
	if ok {
		delete(m.entries, id)
		metrics.SessionsActive.Set(float64(len(m.entries)))
	}
	m.mu.Unlock()

	if ok {
		// Waiters on this entry reload and find nothing.
		e.mu.Lock()
		defer e.mu.Unlock()
		e.evicted = true
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// EvictIdle drops sessions unused for longer than the idle TTL from
// memory. Persisted state is untouched. Sessions currently in use are
// skipped. It returns the number evicted.
func (m *Manager) EvictIdle() int {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int
	for id, e := range m.entries {
		if e.lastUsed.After(cutoff) {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		e.evicted = true
		e.mu.Unlock()
		delete(m.entries, id)
		n++
	}

	metrics.SessionsActive.Set(float64(len(m.entries)))
	if n > 0 {
		metrics.SessionsEvictedTotal.Add(float64(n))
		m.log.Info("evicted idle sessions", "count", n, "remaining", len(m.entries))
	}
	return n
}

// Len returns the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Ping checks the backing Store.
func (m *Manager) Ping(ctx context.Context) error {
	if err := m.store.Ping(ctx); err != nil {
		return fmt.Errorf("session store %s: %w", m.store.Name(), err)
	}
	return nil
}
