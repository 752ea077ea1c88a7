// Package ebay provides the eBay OAuth and Taxonomy API client abstracted
// behind interfaces for testability.
package ebay

import (
	"context"
)

// Marketplace defines the eBay operations the listing controller needs.
// Implementations keep their tokens in a TokenStore.
type Marketplace interface {
	GetAppToken(ctx context.Context, env Environment) (*AppToken, error)
	BuildAuthorizationURL(env Environment, scopes []string, state string) (string, error)
	ExchangeAuthorizationCode(ctx context.Context, code string, env Environment) (*UserToken, error)
	RefreshUserToken(ctx context.Context, refreshToken string, scopes []string, env Environment) (*UserToken, error)

	GetCategorySuggestions(ctx context.Context, query, marketplaceID string) ([]CategorySuggestion, error)
	GetDefaultCategoryTreeID(ctx context.Context, marketplaceID string) (string, error)
	GetCategoryAspects(ctx context.Context, categoryID, marketplaceID string) ([]CategoryAspect, error)
}

// MarketplaceFactory builds a Marketplace bound to one TokenStore.
type MarketplaceFactory func(tokens *TokenStore) Marketplace
