package listing

import (
	"fmt"
)

// AuthState is the seller's position in the OAuth consent handshake.
type AuthState string

// Auth states.
const (
	Unauthenticated AuthState = "unauthenticated"
	Authorize       AuthState = "authorize"
	AuthWaiting     AuthState = "auth_waiting"
	Authorized      AuthState = "authorized"
)

// Valid reports whether s is one of the four known states.
func (s AuthState) Valid() bool {
	switch s {
	case Unauthenticated, Authorize, AuthWaiting, Authorized:
		return true
	}
	return false
}

// Event drives the auth state machine.
type Event string

// Auth events.
const (
	EventLogin          Event = "login"
	EventAppTokenFailed Event = "app_token_failed"
	EventConsentReady   Event = "consent_ready"
	EventCodeReceived   Event = "code_received"
	EventCodeExchanged  Event = "code_exchanged"
	EventExchangeFailed Event = "exchange_failed"
	EventLogout         Event = "logout"
)

// Effect is a side effect the caller performs after a transition, in order.
type Effect string

// Side effects produced by Reduce.
const (
	EffectAcquireAppTokens Effect = "acquire_app_tokens"
	EffectOpenConsent      Effect = "open_consent"
	EffectExchangeCode     Effect = "exchange_code"
	EffectClearTokens      Effect = "clear_tokens"
	EffectDropClients      Effect = "drop_clients"
	EffectResetDraft       Effect = "reset_draft"
	EffectPersist          Effect = "persist"
	EffectRerender         Effect = "rerender"
)

// Transition is the outcome of applying an event to a state.
type Transition struct {
	From    AuthState
	To      AuthState
	Event   Event
	Effects []Effect
}

// Reduce applies ev to state. It performs no I/O; the returned effects
// describe the work the caller must carry out. Events that are not legal
// in state return ErrInvalidTransition.
func Reduce(state AuthState, ev Event) (Transition, error) {
	t := Transition{From: state, To: state, Event: ev}

	switch {
	case ev == EventLogout:
		// Logout is legal from every state.
		t.To = Unauthenticated
		t.Effects = []Effect{
			EffectClearTokens,
			EffectDropClients,
			EffectResetDraft,
			EffectPersist,
			EffectRerender,
		}

	case ev == EventLogin && (state == Unauthenticated || state == Authorize):
		t.To = Authorize
		t.Effects = []Effect{EffectAcquireAppTokens, EffectOpenConsent}

	case ev == EventAppTokenFailed && state == Authorize:
		t.Effects = []Effect{EffectPersist}

	case ev == EventConsentReady && state == Authorize:
		t.To = AuthWaiting
		t.Effects = []Effect{EffectPersist, EffectRerender}

	case ev == EventCodeReceived && state == AuthWaiting:
		t.Effects = []Effect{EffectExchangeCode}

	case ev == EventCodeExchanged && state == AuthWaiting:
		t.To = Authorized
		t.Effects = []Effect{EffectPersist, EffectRerender}

	case ev == EventExchangeFailed && state == AuthWaiting:
		t.Effects = []Effect{EffectPersist}

	default:
		return Transition{}, fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, ev, state)
	}

	return t, nil
}
