package listing

import "errors"

var (
	// ErrNotAuthorized is returned by operations that need a logged-in
	// seller while the session is not in the authorized state.
	ErrNotAuthorized = errors.New("not authorized: please log in")

	// ErrMissingFields is returned when required draft fields are empty.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidField is returned when a draft value fails validation.
	ErrInvalidField = errors.New("invalid field")

	// ErrImageLimit is returned when adding an image beyond MaxImages.
	ErrImageLimit = errors.New("image limit reached")

	// ErrSessionNotFound is returned for unknown session IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidTransition is returned when an auth event is not legal in
	// the current state.
	ErrInvalidTransition = errors.New("invalid auth transition")

	// ErrUnknownAspect is returned when answering an aspect the selected
	// category does not require.
	ErrUnknownAspect = errors.New("unknown aspect")

	// ErrNoCategory is returned by aspect operations before a category
	// has been selected.
	ErrNoCategory = errors.New("no category selected")
)
