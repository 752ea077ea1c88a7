package ebay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
)

const suggestionsJSON = `{
  "categoryTreeId": "0",
  "categorySuggestions": [
    {
      "category": {"categoryId": "9355", "categoryName": "Cell Phones & Smartphones"},
      "categoryTreeNodeAncestors": [
        {"categoryId": "15032", "categoryName": "Cell Phones & Accessories"},
        {"categoryId": "0", "categoryName": "Root"}
      ],
      "categoryTreeNodeLevel": 2
    },
    {
      "category": {"categoryId": "20349", "categoryName": "Cases, Covers & Skins"},
      "categoryTreeNodeAncestors": [
        {"categoryId": "9394", "categoryName": "Cell Phone Accessories"}
      ],
      "categoryTreeNodeLevel": 3
    }
  ]
}`

const aspectsJSON = `{
  "aspects": [
    {
      "localizedAspectName": "Brand",
      "aspectConstraint": {"aspectDataType": "STRING", "aspectMode": "FREE_TEXT", "aspectRequired": true},
      "aspectValues": [{"localizedValue": "Apple"}, {"localizedValue": "Samsung"}]
    },
    {
      "localizedAspectName": "Color",
      "aspectConstraint": {"aspectDataType": "STRING", "aspectMode": "FREE_TEXT", "aspectRequired": false},
      "aspectValues": [{"localizedValue": "Black"}]
    },
    {
      "localizedAspectName": "Storage Capacity",
      "aspectConstraint": {"aspectDataType": "STRING", "aspectMode": "SELECTION_ONLY", "aspectRequired": true},
      "aspectValues": [{"localizedValue": "128 GB"}, {"localizedValue": "256 GB"}]
    }
  ]
}`

func TestOAuthClient_GetCategorySuggestions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/commerce/taxonomy/v1/category_tree/0/get_category_suggestions", r.URL.Path)
			assert.Equal(t, "iPhone 15 Apple", r.URL.Query().Get("q"))
			assert.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
			assert.Equal(t, "EBAY_US", r.Header.Get("X-EBAY-C-MARKETPLACE-ID"))
			_, _ = w.Write([]byte(suggestionsJSON))
		}),
	)
	defer srv.Close()

	c := newTestClient(srv)
	c.Tokens().SetAppToken(ebay.Production, &ebay.AppToken{AccessToken: "app-token"})

	got, err := c.GetCategorySuggestions(context.Background(), "iPhone 15 Apple", "EBAY_US")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, ebay.CategorySuggestion{
		AncestorName: "Cell Phones & Accessories",
		CategoryID:   "9355",
		CategoryName: "Cell Phones & Smartphones",
	}, got[0])
	assert.Equal(t, "20349", got[1].CategoryID)
	assert.Equal(t, "Cell Phone Accessories > Cases, Covers & Skins", got[1].Label())
}

func TestOAuthClient_TaxonomyRequiresAppToken(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	// A user token does not substitute for the app token.
	c.Tokens().SetUserToken(ebay.Production, &ebay.UserToken{AccessToken: "user"})

	_, err := c.GetCategorySuggestions(context.Background(), "q", "EBAY_US")
	require.ErrorIs(t, err, ebay.ErrTokenRequired)
	assert.Contains(t, err.Error(), "token required")

	_, err = c.GetDefaultCategoryTreeID(context.Background(), "EBAY_US")
	require.ErrorIs(t, err, ebay.ErrTokenRequired)

	_, err = c.GetCategoryAspects(context.Background(), "9355", "EBAY_US")
	require.ErrorIs(t, err, ebay.ErrTokenRequired)

	assert.Equal(t, int32(0), calls.Load())
}

func TestOAuthClient_CatalogEnvironment(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sandbox-app", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"categorySuggestions":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv, ebay.WithCatalogEnvironment(ebay.Sandbox))
	c.Tokens().SetAppToken(ebay.Sandbox, &ebay.AppToken{AccessToken: "sandbox-app"})

	got, err := c.GetCategorySuggestions(context.Background(), "q", "EBAY_US")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOAuthClient_GetCategorySuggestions_Unauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"errorId":1001,"message":"Invalid access token"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	c.Tokens().SetAppToken(ebay.Production, &ebay.AppToken{AccessToken: "stale"})

	_, err := c.GetCategorySuggestions(context.Background(), "q", "EBAY_US")
	require.Error(t, err)
	assert.True(t, ebay.IsUnauthorized(err))

	var apiErr *ebay.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "get_category_suggestions", apiErr.Endpoint)
	assert.Contains(t, apiErr.Body, "Invalid access token")

	_, ok := c.Tokens().AppToken(ebay.Production)
	assert.False(t, ok, "stale app token is dropped")
}

func TestOAuthClient_GetDefaultCategoryTreeID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commerce/taxonomy/v1/get_default_category_tree_id", r.URL.Path)
		assert.Equal(t, "EBAY_GB", r.URL.Query().Get("marketplace_id"))
		_, _ = w.Write([]byte(`{"categoryTreeId":"3","categoryTreeVersion":"129"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	c.Tokens().SetAppToken(ebay.Production, &ebay.AppToken{AccessToken: "app"})

	id, err := c.GetDefaultCategoryTreeID(context.Background(), "EBAY_GB")
	require.NoError(t, err)
	assert.Equal(t, "3", id)
}

func TestOAuthClient_GetCategoryAspects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		aspectStatus int
		aspectBody   string
		wantErr      bool
		wantNames    []string
	}{
		{
			name:         "required only",
			aspectStatus: http.StatusOK,
			aspectBody:   aspectsJSON,
			wantNames:    []string{"Brand", "Storage Capacity"},
		},
		{
			name:         "aspects endpoint fails",
			aspectStatus: http.StatusNotFound,
			aspectBody:   `{"errors":[{"message":"category not found"}]}`,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("/commerce/taxonomy/v1/get_default_category_tree_id", func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				_, _ = w.Write([]byte(`{"categoryTreeId":"0"}`))
			})
			mux.HandleFunc("/commerce/taxonomy/v1/category_tree/0/get_item_aspects_for_category", func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				assert.Equal(t, "9355", r.URL.Query().Get("category_id"))
				w.WriteHeader(tt.aspectStatus)
				_, _ = w.Write([]byte(tt.aspectBody))
			})
			srv := httptest.NewServer(mux)
			defer srv.Close()

			c := newTestClient(srv)
			c.Tokens().SetAppToken(ebay.Production, &ebay.AppToken{AccessToken: "app"})

			got, err := c.GetCategoryAspects(context.Background(), "9355", "EBAY_US")
			assert.Equal(t, int32(2), calls.Load())

			if tt.wantErr {
				var apiErr *ebay.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
				assert.Contains(t, apiErr.Body, "category not found")
				return
			}

			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, a := range got {
				assert.True(t, a.Required)
				names = append(names, a.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, []string{"128 GB", "256 GB"}, got[1].AllowedValues)
			assert.True(t, got[1].Accepts("128 GB"))
			assert.False(t, got[1].Accepts("1 TB"))
			assert.True(t, got[0].Accepts("Google"))
		})
	}
}
