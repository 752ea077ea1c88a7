package ebay

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenRequired is returned when an operation needs a token that is
	// not present. No request is sent in that case.
	ErrTokenRequired = errors.New("token required")

	// ErrUnknownEnvironment is returned for anything other than production
	// or sandbox.
	ErrUnknownEnvironment = errors.New("unknown eBay environment")

	// ErrMissingCredentials is returned when no credentials are configured
	// for the requested environment.
	ErrMissingCredentials = errors.New("missing eBay credentials")
)

// TokenError reports a failed OAuth grant and carries the raw response body.
type TokenError struct {
	Grant      string
	StatusCode int
	Body       string
}

func (e *TokenError) Error() string {
	if e.StatusCode == 0 || (e.StatusCode >= 200 && e.StatusCode <= 299) {
		return fmt.Sprintf("%s grant returned no access_token: %s", e.Grant, e.Body)
	}
	return fmt.Sprintf(
		"%s grant failed (status %d): %s",
		e.Grant,
		e.StatusCode,
		e.Body,
	)
}

// APIError reports a non-2xx response from a marketplace REST endpoint.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf(
		"eBay API error from %s (status %d): %s",
		e.Endpoint,
		e.StatusCode,
		e.Body,
	)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}
