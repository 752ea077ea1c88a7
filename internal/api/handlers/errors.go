package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
	"github.com/donaldgifford/ebay-listing-creator/pkg/copywriter"
)

// apiError maps controller and upstream errors onto HTTP status codes.
func apiError(err error) error {
	if err == nil {
		return nil
	}

	var (
		tokenErr *ebay.TokenError
		apiErr   *ebay.APIError
	)

	switch {
	case errors.Is(err, listing.ErrSessionNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, listing.ErrNotAuthorized),
		errors.Is(err, ebay.ErrTokenRequired):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, listing.ErrImageLimit),
		errors.Is(err, listing.ErrInvalidTransition):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, listing.ErrMissingFields),
		errors.Is(err, listing.ErrInvalidField),
		errors.Is(err, listing.ErrUnknownAspect),
		errors.Is(err, listing.ErrNoCategory),
		errors.Is(err, ebay.ErrUnknownEnvironment),
		errors.Is(err, copywriter.ErrIncompleteProduct):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, ebay.ErrDailyLimitReached):
		return huma.Error429TooManyRequests(err.Error())
	case errors.As(err, &tokenErr),
		errors.As(err, &apiErr),
		errors.Is(err, copywriter.ErrMalformedResponse):
		return huma.Error502BadGateway(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
