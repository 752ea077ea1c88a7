package ebay

import (
	"fmt"
	"sync"
)

// Credentials identify the seller application in one environment.
type Credentials struct {
	ClientID     string
	ClientSecret string
	DevID        string
	// RuName is the redirect identifier eBay maps to the callback URL.
	RuName string
}

// AppToken is an application access token from the client-credentials grant.
type AppToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Valid reports whether the token carries an access token.
func (t *AppToken) Valid() bool {
	return t != nil && t.AccessToken != ""
}

// UserToken is a seller access token from the authorization-code grant.
type UserToken struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token,omitempty"`
	ExpiresIn             int    `json:"expires_in"`
	RefreshTokenExpiresIn int    `json:"refresh_token_expires_in,omitempty"`
	TokenType             string `json:"token_type,omitempty"`
}

// Valid reports whether the token carries an access token.
func (t *UserToken) Valid() bool {
	return t != nil && t.AccessToken != ""
}

// TokenSnapshot is the serializable form of a TokenStore.
type TokenSnapshot struct {
	App  map[Environment]*AppToken  `json:"app,omitempty"`
	User map[Environment]*UserToken `json:"user,omitempty"`
}

// TokenStore holds app and user tokens per environment along with the
// endpoint base URLs of each environment. It never refreshes anything on
// its own.
type TokenStore struct {
	mu        sync.RWMutex
	endpoints map[Environment]Endpoints
	app       map[Environment]*AppToken
	user      map[Environment]*UserToken
}

// TokenStoreOption configures a TokenStore.
type TokenStoreOption func(*TokenStore)

// WithEndpoints overrides the base URLs for env. Empty fields keep the
// default host.
func WithEndpoints(env Environment, ep Endpoints) TokenStoreOption {
	return func(s *TokenStore) {
		cur, ok := s.endpoints[env]
		if !ok {
			return
		}
		if ep.API != "" {
			cur.API = ep.API
		}
		if ep.Auth != "" {
			cur.Auth = ep.Auth
		}
		s.endpoints[env] = cur
	}
}

// NewTokenStore creates an empty TokenStore with the public eBay hosts.
func NewTokenStore(opts ...TokenStoreOption) *TokenStore {
	s := &TokenStore{
		endpoints: make(map[Environment]Endpoints, len(defaultEndpoints)),
		app:       make(map[Environment]*AppToken),
		user:      make(map[Environment]*UserToken),
	}
	for env, ep := range defaultEndpoints {
		s.endpoints[env] = ep
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Endpoints returns the base URLs for env.
func (s *TokenStore) Endpoints(env Environment) (Endpoints, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ep, ok := s.endpoints[env]
	if !ok {
		return Endpoints{}, fmt.Errorf("%w: %q", ErrUnknownEnvironment, env)
	}
	return ep, nil
}

// AppToken returns the app token for env, if any.
func (s *TokenStore) AppToken(env Environment) (*AppToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.app[env]
	if !ok || !t.Valid() {
		return nil, false
	}
	cp := *t
	return &cp, true
}

// SetAppToken stores t for env.
func (s *TokenStore) SetAppToken(env Environment, t *AppToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == nil {
		delete(s.app, env)
		return
	}
	cp := *t
	s.app[env] = &cp
}

// ClearAppToken forgets the app token for env.
func (s *TokenStore) ClearAppToken(env Environment) {
	s.SetAppToken(env, nil)
}

// UserToken returns the user token for env. The token is returned even
// when it lacks an access token so callers can inspect a failed exchange.
func (s *TokenStore) UserToken(env Environment) (*UserToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.user[env]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

// SetUserToken stores t for env.
func (s *TokenStore) SetUserToken(env Environment, t *UserToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == nil {
		delete(s.user, env)
		return
	}
	cp := *t
	s.user[env] = &cp
}

// ClearUserTokens forgets the user tokens of every environment.
func (s *TokenStore) ClearUserTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.user)
}

// Snapshot copies the stored tokens for persistence.
func (s *TokenStore) Snapshot() TokenSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := TokenSnapshot{
		App:  make(map[Environment]*AppToken, len(s.app)),
		User: make(map[Environment]*UserToken, len(s.user)),
	}
	for env, t := range s.app {
		cp := *t
		snap.App[env] = &cp
	}
	for env, t := range s.user {
		cp := *t
		snap.User[env] = &cp
	}
	return snap
}

// Restore replaces the stored tokens with those in snap. Entries for
// unknown environments are ignored.
func (s *TokenStore) Restore(snap TokenSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.app)
	clear(s.user)
	for env, t := range snap.App {
		if env.Valid() && t != nil {
			cp := *t
			s.app[env] = &cp
		}
	}
	for env, t := range snap.User {
		if env.Valid() && t != nil {
			cp := *t
			s.user[env] = &cp
		}
	}
}
