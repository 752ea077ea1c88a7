package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/donaldgifford/ebay-listing-creator/internal/metrics"
)

const (
	taxonomyBase         = "/commerce/taxonomy/v1"
	suggestionsPath      = taxonomyBase + "/category_tree/0/get_category_suggestions"
	defaultTreePath      = taxonomyBase + "/get_default_category_tree_id"
	aspectsForCategoryFn = "get_item_aspects_for_category"

	endpointSuggestions = "get_category_suggestions"
	endpointDefaultTree = "get_default_category_tree_id"
	endpointAspects     = "get_item_aspects_for_category"
)

// GetCategorySuggestions returns the ordered suggestion list for query.
// It needs an app token for the catalog environment and sends nothing
// without one.
func (c *OAuthClient) GetCategorySuggestions(
	ctx context.Context,
	query, marketplaceID string,
) ([]CategorySuggestion, error) {
	params := url.Values{}
	params.Set("q", query)

	body, err := c.getTaxonomy(ctx, endpointSuggestions, suggestionsPath+"?"+params.Encode(), marketplaceID)
	if err != nil {
		return nil, err
	}

	var resp categorySuggestionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing category suggestions: %w", err)
	}

	out := make([]CategorySuggestion, 0, len(resp.CategorySuggestions))
	for _, e := range resp.CategorySuggestions {
		out = append(out, e.toSuggestion())
	}
	return out, nil
}

// GetDefaultCategoryTreeID resolves the category tree of a marketplace.
func (c *OAuthClient) GetDefaultCategoryTreeID(
	ctx context.Context,
	marketplaceID string,
) (string, error) {
	params := url.Values{}
	params.Set("marketplace_id", marketplaceID)

	body, err := c.getTaxonomy(ctx, endpointDefaultTree, defaultTreePath+"?"+params.Encode(), marketplaceID)
	if err != nil {
		return "", err
	}

	var resp defaultTreeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing default category tree: %w", err)
	}
	if resp.CategoryTreeID == "" {
		return "", fmt.Errorf("default category tree for %s: empty categoryTreeId", marketplaceID)
	}
	return resp.CategoryTreeID, nil
}

// GetCategoryAspects returns the required aspects of categoryID in the
// marketplace's default tree.
func (c *OAuthClient) GetCategoryAspects(
	ctx context.Context,
	categoryID, marketplaceID string,
) ([]CategoryAspect, error) {
	treeID, err := c.GetDefaultCategoryTreeID(ctx, marketplaceID)
	if err != nil {
		return nil, fmt.Errorf("resolving category tree: %w", err)
	}

	params := url.Values{}
	params.Set("category_id", categoryID)
	path := fmt.Sprintf(
		"%s/category_tree/%s/%s?%s",
		taxonomyBase,
		url.PathEscape(treeID),
		aspectsForCategoryFn,
		params.Encode(),
	)

	body, err := c.getTaxonomy(ctx, endpointAspects, path, marketplaceID)
	if err != nil {
		return nil, err
	}

	var resp aspectsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing category aspects: %w", err)
	}

	out := make([]CategoryAspect, 0, len(resp.Aspects))
	for _, e := range resp.Aspects {
		a := e.toAspect()
		if a.Required {
			out = append(out, a)
		}
	}
	return out, nil
}

func (c *OAuthClient) getTaxonomy(
	ctx context.Context,
	endpoint, pathAndQuery, marketplaceID string,
) ([]byte, error) {
	tok, ok := c.tokens.AppToken(c.catalogEnv)
	if !ok {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrTokenRequired)
	}
	ep, err := c.tokens.Endpoints(c.catalogEnv)
	if err != nil {
		return nil, err
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.API+pathAndQuery, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	if marketplaceID != "" {
		req.Header.Set("X-EBAY-C-MARKETPLACE-ID", marketplaceID)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.EbayAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("executing %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	metrics.EbayAPICallsTotal.WithLabelValues(endpoint, statusClass(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized {
		// Stale app token: the next call reacquires it.
		c.tokens.ClearAppToken(c.catalogEnv)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return body, nil
}
