package listing

import (
	"fmt"
	"time"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/session"
)

// Snapshot keys. Keys starting with "_" are never persisted.
const (
	keyEnvironment = "environment"
	keyAuthState   = "auth_state"
	keyTokens      = "tokens"
	keyPendingCode = "pending_code"
	keyConsentURL  = "consent_url"
	keyAuthError   = "auth_error"
	keyDraft       = "draft"
	keySuggestions = "suggestions"
	keyAspects     = "aspects"
	keyUpdatedAt   = "updated_at"
	keyLastListing = "_last_listing"
)

// Session is one seller's explicit context: tokens, auth state and draft.
// A Session is only touched while its Manager lock is held.
type Session struct {
	ID          string
	Environment ebay.Environment
	State       AuthState
	Tokens      *ebay.TokenStore

	// PendingCode is an authorization code delivered by the callback
	// listener and not yet exchanged.
	PendingCode string
	ConsentURL  string
	AuthError   string

	Draft       Draft
	Suggestions []ebay.CategorySuggestion
	Aspects     []ebay.CategoryAspect
	LastListing *Listing
	UpdatedAt   time.Time

	client  ebay.Marketplace
	effects []Effect
}

func newSession(id string, env ebay.Environment, tokens *ebay.TokenStore) *Session {
	return &Session{
		ID:          id,
		Environment: env,
		State:       Unauthenticated,
		Tokens:      tokens,
		Draft:       NewDraft(),
	}
}

// Rerender reports whether the last auth transition asked the UI to
// redraw from scratch.
func (s *Session) Rerender() bool {
	for _, e := range s.effects {
		if e == EffectRerender {
			return true
		}
	}
	return false
}

// Effects returns the side effects of the last auth transition.
func (s *Session) Effects() []Effect {
	return append([]Effect(nil), s.effects...)
}

func (s *Session) snapshot() (session.Snapshot, error) {
	snap := session.Snapshot{}
	entries := []struct {
		key string
		val any
	}{
		{keyEnvironment, s.Environment},
		{keyAuthState, s.State},
		{keyTokens, s.Tokens.Snapshot()},
		{keyPendingCode, s.PendingCode},
		{keyConsentURL, s.ConsentURL},
		{keyAuthError, s.AuthError},
		{keyDraft, s.Draft},
		{keySuggestions, s.Suggestions},
		{keyAspects, s.Aspects},
		{keyUpdatedAt, s.UpdatedAt},
	}
	for _, e := range entries {
		if err := snap.Put(e.key, e.val); err != nil {
			return nil, err
		}
	}
	if s.LastListing != nil {
		if err := snap.Put(keyLastListing, s.LastListing); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// restore merges snap over the current state of s. Keys absent from snap
// keep the values s already has.
func (s *Session) restore(snap session.Snapshot) error {
	merged, err := s.snapshot()
	if err != nil {
		return err
	}
	merged.Merge(snap)

	var tokens ebay.TokenSnapshot
	if _, err := merged.Get(keyTokens, &tokens); err != nil {
		return err
	}
	s.Tokens.Restore(tokens)

	targets := []struct {
		key string
		dst any
	}{
		{keyEnvironment, &s.Environment},
		{keyAuthState, &s.State},
		{keyPendingCode, &s.PendingCode},
		{keyConsentURL, &s.ConsentURL},
		{keyAuthError, &s.AuthError},
		{keyDraft, &s.Draft},
		{keySuggestions, &s.Suggestions},
		{keyAspects, &s.Aspects},
		{keyUpdatedAt, &s.UpdatedAt},
		{keyLastListing, &s.LastListing},
	}
	for _, t := range targets {
		if _, err := merged.Get(t.key, t.dst); err != nil {
			return err
		}
	}

	if !s.State.Valid() {
		return fmt.Errorf("restoring session %s: unknown auth state %q", s.ID, s.State)
	}
	if !s.Environment.Valid() {
		return fmt.Errorf("restoring session %s: %w %q", s.ID, ebay.ErrUnknownEnvironment, s.Environment)
	}
	if s.Draft.SelectedAspects == nil {
		s.Draft.SelectedAspects = map[string]string{}
	}
	return nil
}

// rollback resets s to snap, a snapshot taken earlier in the same call.
// The TokenStore and cached client are kept.
func (s *Session) rollback(snap session.Snapshot) error {
	prev := newSession(s.ID, s.Environment, s.Tokens)
	if err := prev.restore(snap); err != nil {
		return err
	}
	prev.client = s.client
	*s = *prev
	return nil
}
