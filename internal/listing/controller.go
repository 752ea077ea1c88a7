// Package listing implements the listing draft controller: the per-session
// auth state machine, draft mutation and orchestration of the eBay client
// and the copywriter.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/metrics"
	"github.com/donaldgifford/ebay-listing-creator/internal/session"
	"github.com/donaldgifford/ebay-listing-creator/pkg/copywriter"
)

// Controller drives sessions held by a Manager.
type Controller struct {
	sessions       *Manager
	newMarketplace ebay.MarketplaceFactory
	writer         copywriter.Copywriter
	scopes         map[ebay.Environment][]string
	appTokenEnvs   []ebay.Environment
	now            func() time.Time
	log            *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithScopes overrides the consent scope list of env.
func WithScopes(env ebay.Environment, scopes []string) ControllerOption {
	return func(c *Controller) {
		c.scopes[env] = scopes
	}
}

// WithAppTokenEnvironments sets the environments whose app tokens Login
// acquires. Defaults to both.
func WithAppTokenEnvironments(envs ...ebay.Environment) ControllerOption {
	return func(c *Controller) {
		c.appTokenEnvs = envs
	}
}

// WithControllerNowFunc overrides the clock. Used in tests.
func WithControllerNowFunc(f func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = f
	}
}

// WithControllerLogger sets a custom logger.
func WithControllerLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = l
	}
}

// NewController creates a Controller. newMarketplace builds the eBay client
// bound to a session's TokenStore; it is called lazily and the result is
// cached on the session until logout.
func NewController(
	sessions *Manager,
	newMarketplace ebay.MarketplaceFactory,
	writer copywriter.Copywriter,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		sessions:       sessions,
		newMarketplace: newMarketplace,
		writer:         writer,
		scopes: map[ebay.Environment][]string{
			ebay.Production: ebay.DefaultScopes(ebay.Production),
			ebay.Sandbox:    ebay.DefaultScopes(ebay.Sandbox),
		},
		appTokenEnvs: ebay.Environments,
		now:          time.Now,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sessions returns the underlying Manager.
func (c *Controller) Sessions() *Manager {
	return c.sessions
}

// NewSession creates an empty session in env ("" picks the default).
func (c *Controller) NewSession(ctx context.Context, env ebay.Environment) (View, error) {
	id, err := c.sessions.Create(ctx, env)
	if err != nil {
		return View{}, err
	}
	return c.Get(ctx, id)
}

// Get returns the session, first exchanging any pending authorization code.
func (c *Controller) Get(ctx context.Context, id string) (View, error) {
	return c.do(ctx, id, func(*Session) error { return nil })
}

// DeleteSession forgets the session entirely.
func (c *Controller) DeleteSession(ctx context.Context, id string) error {
	return c.sessions.Delete(ctx, id)
}

// do runs fn under the session lock after resolving a pending code.
func (c *Controller) do(ctx context.Context, id string, fn func(*Session) error) (View, error) {
	var v View
	err := c.sessions.With(ctx, id, func(s *Session) error {
		s.effects = nil
		if err := c.resolvePending(ctx, s); err != nil {
			v = s.view()
			return err
		}
		err := fn(s)
		v = s.view()
		return err
	})
	return v, err
}

// mutate is do followed by a save when fn succeeds. If fn or the save
// fails the session is reset to its state before fn ran.
func (c *Controller) mutate(ctx context.Context, id string, fn func(*Session) error) (View, error) {
	return c.do(ctx, id, func(s *Session) error {
		before, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return c.undo(s, before, err)
		}
		if err := c.sessions.Save(ctx, s); err != nil {
			return c.undo(s, before, err)
		}
		return nil
	})
}

// undo rolls s back to before and returns cause.
func (c *Controller) undo(s *Session, before session.Snapshot, cause error) error {
	if err := s.rollback(before); err != nil {
		c.log.Error("rolling back session", "session", s.ID, "error", err)
		return errors.Join(cause, err)
	}
	return cause
}

func (c *Controller) resolvePending(ctx context.Context, s *Session) error {
	if s.State != AuthWaiting || s.PendingCode == "" {
		return nil
	}
	return c.dispatch(ctx, s, EventCodeReceived)
}

// Login starts the consent handshake: app tokens are acquired where
// absent and the consent URL for the session's environment is built.
func (c *Controller) Login(ctx context.Context, id string) (View, error) {
	return c.do(ctx, id, func(s *Session) error {
		return c.dispatch(ctx, s, EventLogin)
	})
}

// DeliverCode records an authorization code received by the callback
// listener. It is exchanged on the next controller call.
func (c *Controller) DeliverCode(ctx context.Context, id, code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: authorization code is empty", ErrInvalidField)
	}
	return c.sessions.With(ctx, id, func(s *Session) error {
		if s.State != AuthWaiting {
			return fmt.Errorf("%w: code delivered in state %s", ErrInvalidTransition, s.State)
		}
		s.PendingCode = code
		return c.sessions.Save(ctx, s)
	})
}

// Logout clears user tokens, the cached client and the draft.
func (c *Controller) Logout(ctx context.Context, id string) (View, error) {
	var v View
	err := c.sessions.With(ctx, id, func(s *Session) error {
		s.effects = nil
		err := c.dispatch(ctx, s, EventLogout)
		v = s.view()
		return err
	})
	return v, err
}

// RefreshUserToken renews the seller token of the session's environment.
func (c *Controller) RefreshUserToken(ctx context.Context, id string) (View, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		if s.State != Authorized {
			return ErrNotAuthorized
		}
		var refresh string
		if tok, ok := s.Tokens.UserToken(s.Environment); ok {
			refresh = tok.RefreshToken
		}
		if _, err := c.marketplace(s).RefreshUserToken(ctx, refresh, c.scopes[s.Environment], s.Environment); err != nil {
			return fmt.Errorf("refreshing user token: %w", err)
		}
		return nil
	})
}

// dispatch feeds ev through Reduce and performs the resulting effects.
// An effect may produce a follow-up event, which is dispatched in turn.
// An effect failing without a follow-up event undoes the whole dispatch.
func (c *Controller) dispatch(ctx context.Context, s *Session, ev Event) error {
	before, err := s.snapshot()
	if err != nil {
		return err
	}

	var surfaced error
	for ev != "" {
		t, err := Reduce(s.State, ev)
		if err != nil {
			return c.undo(s, before, errors.Join(surfaced, err))
		}
		s.State = t.To
		s.effects = append(s.effects, t.Effects...)
		metrics.AuthTransitionsTotal.WithLabelValues(string(t.Event), string(t.To)).Inc()
		c.log.Info("auth transition",
			"session", s.ID,
			"event", t.Event,
			"from", t.From,
			"to", t.To,
		)

		ev = ""
		for _, eff := range t.Effects {
			next, err := c.perform(ctx, s, eff)
			if err != nil {
				if next == "" {
					return c.undo(s, before, errors.Join(surfaced, err))
				}
				surfaced = err
			}
			if next != "" {
				ev = next
				break
			}
		}
	}
	return surfaced
}

func (c *Controller) perform(ctx context.Context, s *Session, eff Effect) (Event, error) {
	switch eff {
	case EffectAcquireAppTokens:
		if err := c.ensureAppTokens(ctx, s); err != nil {
			return EventAppTokenFailed, err
		}

	case EffectOpenConsent:
		u, err := c.marketplace(s).BuildAuthorizationURL(s.Environment, c.scopes[s.Environment], s.ID)
		if err != nil {
			return "", fmt.Errorf("building consent URL: %w", err)
		}
		s.ConsentURL = u
		s.AuthError = ""
		return EventConsentReady, nil

	case EffectExchangeCode:
		code := s.PendingCode
		s.PendingCode = ""
		tok, err := c.marketplace(s).ExchangeAuthorizationCode(ctx, code, s.Environment)
		if err == nil && !tok.Valid() {
			err = &ebay.TokenError{Grant: "authorization_code", Body: "no access_token in response"}
		}
		if err != nil {
			s.AuthError = err.Error()
			return EventExchangeFailed, fmt.Errorf("exchanging authorization code: %w", err)
		}
		s.AuthError = ""
		s.ConsentURL = ""
		return EventCodeExchanged, nil

	case EffectClearTokens:
		s.Tokens.ClearUserTokens()
		s.PendingCode = ""
		s.ConsentURL = ""
		s.AuthError = ""

	case EffectDropClients:
		s.client = nil

	case EffectResetDraft:
		s.Draft = NewDraft()
		s.Suggestions = nil
		s.Aspects = nil
		s.LastListing = nil

	case EffectPersist:
		if err := c.sessions.Save(ctx, s); err != nil {
			return "", err
		}

	case EffectRerender:
		// Reported through View.Rerender.
	}
	return "", nil
}

// ensureAppTokens acquires missing app tokens, stopping at the first
// failure.
func (c *Controller) ensureAppTokens(ctx context.Context, s *Session) error {
	for _, env := range c.appTokenEnvs {
		if _, ok := s.Tokens.AppToken(env); ok {
			continue
		}
		c.log.Info("acquiring app token", "session", s.ID, "environment", env)
		if _, err := c.marketplace(s).GetAppToken(ctx, env); err != nil {
			return fmt.Errorf("acquiring %s app token: %w", env, err)
		}
	}
	return nil
}

func (c *Controller) marketplace(s *Session) ebay.Marketplace {
	if s.client == nil {
		s.client = c.newMarketplace(s.Tokens)
	}
	return s.client
}

// UpdateDraft validates and applies patch.
func (c *Controller) UpdateDraft(ctx context.Context, id string, patch DraftPatch) (View, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		return s.Draft.Apply(patch)
	})
}

// AddImage appends an image. The 25th image fails with ErrImageLimit.
func (c *Controller) AddImage(ctx context.Context, id string, img Media) (View, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		return s.Draft.AddImage(img)
	})
}

// RemoveImage deletes the image at index.
func (c *Controller) RemoveImage(ctx context.Context, id string, index int) (View, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		return s.Draft.RemoveImage(index)
	})
}

// SetVideo replaces the listing video.
func (c *Controller) SetVideo(ctx context.Context, id string, v Media) (View, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		return s.Draft.SetVideo(v)
	})
}

// ClearVideo removes the listing video.
func (c *Controller) ClearVideo(ctx context.Context, id string) (View, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		s.Draft.ClearVideo()
		return nil
	})
}

// SuggestCategories replaces the suggestion list with the taxonomy
// suggestions for "<title> <manufacturer>". The selected category and all
// aspect answers are reset.
func (c *Controller) SuggestCategories(ctx context.Context, id string) (View, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		if s.State != Authorized {
			return ErrNotAuthorized
		}
		if err := s.Draft.missing("title", "manufacturer"); err != nil {
			return err
		}
		if err := c.ensureAppTokens(ctx, s); err != nil {
			return err
		}

		query := strings.TrimSpace(s.Draft.Title + " " + s.Draft.Manufacturer)
		got, err := c.marketplace(s).GetCategorySuggestions(ctx, query, s.Draft.MarketplaceID)
		if err != nil {
			return fmt.Errorf("suggesting categories: %w", err)
		}

		s.Suggestions = got
		s.Aspects = nil
		s.Draft.ClearCategory()
		return nil
	})
}

// SelectCategory selects suggestion index and fetches its required aspects.
func (c *Controller) SelectCategory(ctx context.Context, id string, index int) (View, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		if s.State != Authorized {
			return ErrNotAuthorized
		}
		if index < 0 || index >= len(s.Suggestions) {
			return fmt.Errorf("%w: suggestion index %d out of range", ErrInvalidField, index)
		}
		if err := c.ensureAppTokens(ctx, s); err != nil {
			return err
		}

		cat := s.Suggestions[index]
		aspects, err := c.marketplace(s).GetCategoryAspects(ctx, cat.CategoryID, s.Draft.MarketplaceID)
		if err != nil {
			return fmt.Errorf("fetching aspects for category %s: %w", cat.CategoryID, err)
		}

		s.Draft.ClearCategory()
		s.Draft.SelectedCategory = &cat
		s.Aspects = aspects
		return nil
	})
}

// SetAspect answers a required aspect of the selected category. An empty
// value clears the answer.
func (c *Controller) SetAspect(ctx context.Context, id, name, value string) (View, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		if s.Draft.SelectedCategory == nil {
			return ErrNoCategory
		}
		var aspect *ebay.CategoryAspect
		for i := range s.Aspects {
			if s.Aspects[i].Name == name {
				aspect = &s.Aspects[i]
				break
			}
		}
		if aspect == nil {
			return fmt.Errorf("%w: %q", ErrUnknownAspect, name)
		}

		value = strings.TrimSpace(value)
		if value == "" {
			delete(s.Draft.SelectedAspects, name)
			return nil
		}
		if !aspect.Accepts(value) {
			return fmt.Errorf("%w: %q is not an allowed value for %s", ErrInvalidField, value, name)
		}
		s.Draft.SelectedAspects[name] = value
		return nil
	})
}

// GenerateListing asks the copywriter for a title and description. On any
// failure the previously generated text is kept.
func (c *Controller) GenerateListing(ctx context.Context, id string) (View, error) {
	return c.mutate(ctx, id, func(s *Session) error {
		if err := s.Draft.missing("title", "manufacturer", "summary"); err != nil {
			return err
		}

		backend := c.writer.Backend()
		start := time.Now()
		out, err := c.writer.Compose(ctx, copywriter.ProductInfo{
			Title:        s.Draft.Title,
			Manufacturer: s.Draft.Manufacturer,
			Summary:      s.Draft.Summary,
		})
		metrics.CopyGenerationDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.CopyGenerationFailuresTotal.WithLabelValues(backend).Inc()
			return fmt.Errorf("generating listing copy: %w", err)
		}

		s.Draft.GeneratedTitle = out.Title
		s.Draft.GeneratedDescription = out.Description
		c.log.Info("listing copy generated", "session", s.ID, "backend", backend)
		return nil
	})
}

// CreateListing validates the draft and returns the assembled payload.
// Nothing is submitted upstream.
func (c *Controller) CreateListing(ctx context.Context, id string) (*Listing, error) {
	var out *Listing
	_, err := c.mutate(ctx, id, func(s *Session) error {
		if s.State != Authorized {
			return ErrNotAuthorized
		}
		if err := s.Draft.missing("title", "manufacturer", "summary"); err != nil {
			return err
		}
		s.LastListing = assemble(s, c.now())
		out = s.LastListing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
