package listing_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	ebayMocks "github.com/donaldgifford/ebay-listing-creator/internal/ebay/mocks"
	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
	"github.com/donaldgifford/ebay-listing-creator/internal/session"
	"github.com/donaldgifford/ebay-listing-creator/pkg/copywriter"
	copyMocks "github.com/donaldgifford/ebay-listing-creator/pkg/copywriter/mocks"
)

const consentURL = "https://auth.sandbox.ebay.com/oauth2/authorize?client_id=sbx"

type fixture struct {
	ctrl    *listing.Controller
	mgr     *listing.Manager
	store   *session.MemoryStore
	mp      *ebayMocks.MockMarketplace
	writer  *copyMocks.MockCopywriter
	tokens  *ebay.TokenStore
	clients atomic.Int32
	discard *slog.Logger
	factory ebay.MarketplaceFactory
}

func newFixture(t *testing.T, opts ...listing.ControllerOption) *fixture {
	t.Helper()

	f := &fixture{
		store:   session.NewMemoryStore(),
		mp:      ebayMocks.NewMockMarketplace(t),
		writer:  copyMocks.NewMockCopywriter(t),
		discard: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	f.factory = func(ts *ebay.TokenStore) ebay.Marketplace {
		f.tokens = ts
		f.clients.Add(1)
		return f.mp
	}
	f.mgr = listing.NewManager(f.store, listing.WithManagerLogger(f.discard))
	opts = append([]listing.ControllerOption{listing.WithControllerLogger(f.discard)}, opts...)
	f.ctrl = listing.NewController(f.mgr, f.factory, f.writer, opts...)
	return f
}

// expectAppTokens makes GetAppToken store a token the way the real client does.
func (f *fixture) expectAppTokens(times int) {
	f.mp.EXPECT().
		GetAppToken(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, env ebay.Environment) (*ebay.AppToken, error) {
			tok := &ebay.AppToken{AccessToken: "app-" + string(env), ExpiresIn: 7200}
			f.tokens.SetAppToken(env, tok)
			return tok, nil
		}).
		Times(times)
}

func (f *fixture) expectExchange(code string, tok *ebay.UserToken, err error) {
	f.mp.EXPECT().
		ExchangeAuthorizationCode(mock.Anything, code, ebay.Sandbox).
		RunAndReturn(func(context.Context, string, ebay.Environment) (*ebay.UserToken, error) {
			f.tokens.SetUserToken(ebay.Sandbox, tok)
			return tok, err
		}).
		Once()
}

// loginWaiting creates a session and drives it to auth_waiting.
func (f *fixture) loginWaiting(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	v, err := f.ctrl.NewSession(ctx, "")
	require.NoError(t, err)
	require.Equal(t, listing.Unauthenticated, v.AuthState)

	f.expectAppTokens(2)
	f.mp.EXPECT().
		BuildAuthorizationURL(ebay.Sandbox, mock.Anything, v.ID).
		Return(consentURL, nil).
		Once()

	v, err = f.ctrl.Login(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, listing.AuthWaiting, v.AuthState)
	return v.ID
}

// authorize creates a session and drives it to authorized.
func (f *fixture) authorize(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	id := f.loginWaiting(t)
	require.NoError(t, f.ctrl.DeliverCode(ctx, id, "code-1"))
	f.expectExchange("code-1", &ebay.UserToken{AccessToken: "user", RefreshToken: "refresh"}, nil)

	v, err := f.ctrl.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, listing.Authorized, v.AuthState)
	return id
}

func (f *fixture) fillProduct(t *testing.T, id string) {
	t.Helper()
	_, err := f.ctrl.UpdateDraft(context.Background(), id, listing.DraftPatch{
		Title:        ptr("iPhone 15"),
		Manufacturer: ptr("Apple"),
		Summary:      ptr("A phone"),
	})
	require.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }

func TestController_LoginFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	id := f.loginWaiting(t)

	v, err := f.ctrl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, listing.AuthWaiting, v.AuthState)
	assert.Equal(t, consentURL, v.ConsentURL)

	_, ok := f.tokens.AppToken(ebay.Production)
	assert.True(t, ok)
	_, ok = f.tokens.AppToken(ebay.Sandbox)
	assert.True(t, ok)

	require.NoError(t, f.ctrl.DeliverCode(ctx, id, "code-1"))
	f.expectExchange("code-1", &ebay.UserToken{AccessToken: "user"}, nil)

	v, err = f.ctrl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, listing.Authorized, v.AuthState)
	assert.True(t, v.Rerender)
	assert.Empty(t, v.ConsentURL)

	snap, err := f.store.Load(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `"authorized"`, string(snap["auth_state"]))
	assert.JSONEq(t, `""`, string(snap["pending_code"]))
}

func TestController_LoginSkipsPresentAppTokens(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	v, err := f.ctrl.NewSession(ctx, ebay.Production)
	require.NoError(t, err)

	f.mp.EXPECT().
		BuildAuthorizationURL(ebay.Production, ebay.DefaultScopes(ebay.Production), v.ID).
		Return("https://auth.ebay.com/oauth2/authorize", nil).
		Once()

	// Both app tokens are already cached.
	require.NoError(t, f.mgr.With(ctx, v.ID, func(s *listing.Session) error {
		s.Tokens.SetAppToken(ebay.Production, &ebay.AppToken{AccessToken: "p"})
		s.Tokens.SetAppToken(ebay.Sandbox, &ebay.AppToken{AccessToken: "s"})
		return nil
	}))

	v, err = f.ctrl.Login(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, listing.AuthWaiting, v.AuthState)
	f.mp.AssertNotCalled(t, "GetAppToken", mock.Anything, mock.Anything)
}

func TestController_LoginAppTokenFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	v, err := f.ctrl.NewSession(ctx, "")
	require.NoError(t, err)

	tokenErr := &ebay.TokenError{Grant: "client_credentials", StatusCode: 401, Body: `{"error":"invalid_client"}`}
	f.mp.EXPECT().
		GetAppToken(mock.Anything, ebay.Production).
		Return(nil, tokenErr).
		Once()

	v, err = f.ctrl.Login(ctx, v.ID)
	require.Error(t, err)
	var te *ebay.TokenError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, listing.Authorize, v.AuthState)
	assert.Empty(t, v.ConsentURL)

	// Retrying login from authorize is allowed.
	f.expectAppTokens(2)
	f.mp.EXPECT().BuildAuthorizationURL(ebay.Sandbox, mock.Anything, v.ID).Return(consentURL, nil).Once()

	v, err = f.ctrl.Login(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, listing.AuthWaiting, v.AuthState)
}

func TestController_ExchangeWithoutAccessToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.loginWaiting(t)

	require.NoError(t, f.ctrl.DeliverCode(ctx, id, "bad-code"))
	f.expectExchange("bad-code", &ebay.UserToken{}, &ebay.TokenError{
		Grant:      "authorization_code",
		StatusCode: 400,
		Body:       `{"error":"invalid_grant"}`,
	})

	v, err := f.ctrl.Get(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
	assert.Equal(t, listing.AuthWaiting, v.AuthState)
	assert.Contains(t, v.AuthError, "invalid_grant")

	// The code is consumed; the next call neither retries nor fails.
	v, err = f.ctrl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, listing.AuthWaiting, v.AuthState)
}

func TestController_ExchangeReturnsEmptyTokenWithoutError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.loginWaiting(t)

	require.NoError(t, f.ctrl.DeliverCode(ctx, id, "code"))
	f.expectExchange("code", &ebay.UserToken{RefreshToken: "r"}, nil)

	v, err := f.ctrl.Get(ctx, id)
	require.Error(t, err)
	assert.Equal(t, listing.AuthWaiting, v.AuthState)
}

func TestController_DeliverCode(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	v, err := f.ctrl.NewSession(ctx, "")
	require.NoError(t, err)

	err = f.ctrl.DeliverCode(ctx, v.ID, "code")
	require.ErrorIs(t, err, listing.ErrInvalidTransition)

	err = f.ctrl.DeliverCode(ctx, v.ID, " ")
	require.ErrorIs(t, err, listing.ErrInvalidField)

	err = f.ctrl.DeliverCode(ctx, "01HZX3K5W4T9Q8R7M6N5P4S3V2", "code")
	require.ErrorIs(t, err, listing.ErrSessionNotFound)
}

func TestController_Logout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.authorize(t)
	f.fillProduct(t, id)

	v, err := f.ctrl.Logout(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, listing.Unauthenticated, v.AuthState)
	assert.True(t, v.Rerender)
	assert.Empty(t, v.Draft.Title)
	assert.Equal(t, 1, v.Draft.Quantity)

	_, ok := f.tokens.UserToken(ebay.Sandbox)
	assert.False(t, ok)

	// The cached client is dropped, so the next login builds a new one.
	before := f.clients.Load()
	f.mp.EXPECT().BuildAuthorizationURL(ebay.Sandbox, mock.Anything, id).Return(consentURL, nil).Once()
	_, err = f.ctrl.Login(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.clients.Load())

	// Logout from auth_waiting is also legal.
	v, err = f.ctrl.Logout(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, listing.Unauthenticated, v.AuthState)
}

func TestController_OperationsRequireAuthorization(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	v, err := f.ctrl.NewSession(ctx, "")
	require.NoError(t, err)
	f.fillProduct(t, v.ID)

	_, err = f.ctrl.SuggestCategories(ctx, v.ID)
	require.ErrorIs(t, err, listing.ErrNotAuthorized)
	assert.Contains(t, err.Error(), "please log in")

	_, err = f.ctrl.SelectCategory(ctx, v.ID, 0)
	require.ErrorIs(t, err, listing.ErrNotAuthorized)

	_, err = f.ctrl.CreateListing(ctx, v.ID)
	require.ErrorIs(t, err, listing.ErrNotAuthorized)

	_, err = f.ctrl.RefreshUserToken(ctx, v.ID)
	require.ErrorIs(t, err, listing.ErrNotAuthorized)

	// The mock fails the test on any unexpected call, so nothing reached eBay.
	assert.Equal(t, int32(0), f.clients.Load())
}

func TestController_SuggestCategories(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.authorize(t)

	_, err := f.ctrl.SuggestCategories(ctx, id)
	require.ErrorIs(t, err, listing.ErrMissingFields)

	f.fillProduct(t, id)

	first := []ebay.CategorySuggestion{
		{AncestorName: "Cell Phones & Accessories", CategoryID: "9355", CategoryName: "Cell Phones & Smartphones"},
		{AncestorName: "Cell Phone Accessories", CategoryID: "20349", CategoryName: "Cases, Covers & Skins"},
	}
	f.mp.EXPECT().
		GetCategorySuggestions(mock.Anything, "iPhone 15 Apple", "EBAY_US").
		Return(first, nil).
		Twice()
	f.mp.EXPECT().
		GetCategoryAspects(mock.Anything, "9355", "EBAY_US").
		Return([]ebay.CategoryAspect{{Name: "Brand", Mode: ebay.AspectModeFreeText, Required: true}}, nil).
		Once()

	v, err := f.ctrl.SuggestCategories(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first, v.Suggestions)
	assert.Nil(t, v.Draft.SelectedCategory)

	v, err = f.ctrl.SelectCategory(ctx, id, 0)
	require.NoError(t, err)
	require.NotNil(t, v.Draft.SelectedCategory)
	_, err = f.ctrl.SetAspect(ctx, id, "Brand", "Apple")
	require.NoError(t, err)

	// A new search always resets the previous selection.
	v, err = f.ctrl.SuggestCategories(ctx, id)
	require.NoError(t, err)
	assert.Len(t, v.Suggestions, 2)
	assert.Nil(t, v.Draft.SelectedCategory)
	assert.Empty(t, v.Draft.SelectedAspects)
	assert.Empty(t, v.Aspects)
}

func TestController_SuggestCategoriesUpstreamError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.authorize(t)
	f.fillProduct(t, id)

	apiErr := &ebay.APIError{Endpoint: "get_category_suggestions", StatusCode: 500, Body: "boom"}
	f.mp.EXPECT().GetCategorySuggestions(mock.Anything, mock.Anything, mock.Anything).Return(nil, apiErr).Once()

	_, err := f.ctrl.SuggestCategories(ctx, id)
	var got *ebay.APIError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 500, got.StatusCode)
}

func TestController_SuggestReacquiresDroppedAppToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.authorize(t)
	f.fillProduct(t, id)

	f.tokens.ClearAppToken(ebay.Production)
	f.expectAppTokens(1)
	f.mp.EXPECT().GetCategorySuggestions(mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()

	_, err := f.ctrl.SuggestCategories(ctx, id)
	require.NoError(t, err)
	_, ok := f.tokens.AppToken(ebay.Production)
	assert.True(t, ok)
}

func TestController_SelectCategoryAndAspects(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.authorize(t)
	f.fillProduct(t, id)

	_, err := f.ctrl.SetAspect(ctx, id, "Brand", "Apple")
	require.ErrorIs(t, err, listing.ErrNoCategory)

	f.mp.EXPECT().
		GetCategorySuggestions(mock.Anything, mock.Anything, mock.Anything).
		Return([]ebay.CategorySuggestion{{CategoryID: "9355", CategoryName: "Cell Phones"}}, nil).
		Once()
	_, err = f.ctrl.SuggestCategories(ctx, id)
	require.NoError(t, err)

	_, err = f.ctrl.SelectCategory(ctx, id, 5)
	require.ErrorIs(t, err, listing.ErrInvalidField)

	f.mp.EXPECT().
		GetCategoryAspects(mock.Anything, "9355", "EBAY_US").
		Return([]ebay.CategoryAspect{
			{Name: "Brand", Mode: ebay.AspectModeFreeText, Required: true},
			{Name: "Storage Capacity", Mode: ebay.AspectModeSelectionOnly, AllowedValues: []string{"128 GB", "256 GB"}, Required: true},
		}, nil).
		Once()

	v, err := f.ctrl.SelectCategory(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, "9355", v.Draft.SelectedCategory.CategoryID)
	assert.Len(t, v.Aspects, 2)

	_, err = f.ctrl.SetAspect(ctx, id, "Color", "Black")
	require.ErrorIs(t, err, listing.ErrUnknownAspect)

	_, err = f.ctrl.SetAspect(ctx, id, "Storage Capacity", "1 TB")
	require.ErrorIs(t, err, listing.ErrInvalidField)

	_, err = f.ctrl.SetAspect(ctx, id, "Storage Capacity", "256 GB")
	require.NoError(t, err)
	v, err = f.ctrl.SetAspect(ctx, id, "Brand", "Apple")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Brand": "Apple", "Storage Capacity": "256 GB"}, v.Draft.SelectedAspects)

	v, err = f.ctrl.SetAspect(ctx, id, "Brand", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Storage Capacity": "256 GB"}, v.Draft.SelectedAspects)
}

func TestController_GenerateListing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	v, err := f.ctrl.NewSession(ctx, "")
	require.NoError(t, err)
	id := v.ID

	_, err = f.ctrl.GenerateListing(ctx, id)
	require.ErrorIs(t, err, listing.ErrMissingFields)

	f.fillProduct(t, id)

	f.writer.EXPECT().Backend().Return("stub")
	f.writer.EXPECT().
		Compose(mock.Anything, copywriter.ProductInfo{
			Title:        "iPhone 15",
			Manufacturer: "Apple",
			Summary:      "A phone",
		}).
		Return(copywriter.Copy{Title: "Brand New iPhone 15!", Description: "Great phone."}, nil).
		Once()

	v, err = f.ctrl.GenerateListing(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Brand New iPhone 15!", v.Draft.GeneratedTitle)
	assert.Equal(t, "Great phone.", v.Draft.GeneratedDescription)
	assert.Equal(t, listing.Unauthenticated, v.AuthState, "auth state is untouched")

	f.writer.EXPECT().
		Compose(mock.Anything, mock.Anything).
		Return(copywriter.Copy{}, fmt.Errorf("%w: no JSON object in response", copywriter.ErrMalformedResponse)).
		Once()

	v, err = f.ctrl.GenerateListing(ctx, id)
	require.ErrorIs(t, err, copywriter.ErrMalformedResponse)
	assert.Equal(t, "Brand New iPhone 15!", v.Draft.GeneratedTitle, "prior copy is kept")
	assert.Equal(t, "Great phone.", v.Draft.GeneratedDescription)
}

func TestController_CreateListing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.authorize(t)

	_, err := f.ctrl.CreateListing(ctx, id)
	require.ErrorIs(t, err, listing.ErrMissingFields)

	f.fillProduct(t, id)
	_, err = f.ctrl.UpdateDraft(ctx, id, listing.DraftPatch{
		SKU:      ptr("SKU-1"),
		Price:    ptr(799.0),
		Quantity: ptr(2),
	})
	require.NoError(t, err)
	_, err = f.ctrl.AddImage(ctx, id, listing.Media{Name: "front.jpg", ContentType: "image/jpeg", Data: []byte{1, 2}})
	require.NoError(t, err)

	got, err := f.ctrl.CreateListing(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", got.SKU)
	assert.Equal(t, "iPhone 15", got.Title)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, 1, got.ImageCount)
	assert.False(t, got.HasVideo)
	assert.Equal(t, ebay.Sandbox, got.Environment)

	v, err := f.ctrl.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, v.LastListing)

	// The assembled payload is a one-shot value and is never persisted.
	snap, err := f.store.Load(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, snap, "_last_listing")
}

func TestController_ImageLimit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	v, err := f.ctrl.NewSession(ctx, "")
	require.NoError(t, err)

	for i := range listing.MaxImages {
		_, err := f.ctrl.AddImage(ctx, v.ID, listing.Media{
			Name:        fmt.Sprintf("%d.png", i),
			ContentType: "image/png",
			Data:        []byte{byte(i)},
		})
		require.NoError(t, err)
	}

	v, err = f.ctrl.AddImage(ctx, v.ID, listing.Media{Name: "25.png", ContentType: "image/png", Data: []byte{1}})
	require.ErrorIs(t, err, listing.ErrImageLimit)
	assert.Len(t, v.Draft.Images, listing.MaxImages)

	v, err = f.ctrl.RemoveImage(ctx, v.ID, 3)
	require.NoError(t, err)
	assert.Len(t, v.Draft.Images, listing.MaxImages-1)
	assert.Equal(t, "4.png", v.Draft.Images[3].Name)

	v, err = f.ctrl.SetVideo(ctx, v.ID, listing.Media{Name: "demo.mp4", ContentType: "video/mp4", Data: []byte{1, 2, 3}})
	require.NoError(t, err)
	require.NotNil(t, v.Draft.Video)
	assert.Equal(t, 3, v.Draft.Video.Size)

	v, err = f.ctrl.ClearVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, v.Draft.Video)
}

func TestController_RefreshUserToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.authorize(t)

	f.mp.EXPECT().
		RefreshUserToken(mock.Anything, "refresh", ebay.DefaultScopes(ebay.Sandbox), ebay.Sandbox).
		RunAndReturn(func(context.Context, string, []string, ebay.Environment) (*ebay.UserToken, error) {
			tok := &ebay.UserToken{AccessToken: "user-2", RefreshToken: "refresh"}
			f.tokens.SetUserToken(ebay.Sandbox, tok)
			return tok, nil
		}).
		Once()

	_, err := f.ctrl.RefreshUserToken(ctx, id)
	require.NoError(t, err)

	tok, ok := f.tokens.UserToken(ebay.Sandbox)
	require.True(t, ok)
	assert.Equal(t, "user-2", tok.AccessToken)

	f.mp.EXPECT().
		RefreshUserToken(mock.Anything, "refresh", mock.Anything, ebay.Sandbox).
		Return(nil, errors.New("connection refused")).
		Once()

	v, err := f.ctrl.RefreshUserToken(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refreshing user token")
	assert.Equal(t, listing.Authorized, v.AuthState)
}

func TestController_RefreshUsesConsentScopes(t *testing.T) {
	t.Parallel()

	narrowed := []string{"https://api.ebay.com/oauth/api_scope"}
	f := newFixture(t, listing.WithScopes(ebay.Sandbox, narrowed))
	ctx := context.Background()

	v, err := f.ctrl.NewSession(ctx, "")
	require.NoError(t, err)

	f.expectAppTokens(2)
	f.mp.EXPECT().
		BuildAuthorizationURL(ebay.Sandbox, narrowed, v.ID).
		Return(consentURL, nil).
		Once()
	_, err = f.ctrl.Login(ctx, v.ID)
	require.NoError(t, err)

	f.expectExchange("code", &ebay.UserToken{AccessToken: "user-1", RefreshToken: "refresh"}, nil)
	require.NoError(t, f.ctrl.DeliverCode(ctx, v.ID, "code"))
	v, err = f.ctrl.Get(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, listing.Authorized, v.AuthState)

	f.mp.EXPECT().
		RefreshUserToken(mock.Anything, "refresh", narrowed, ebay.Sandbox).
		Return(&ebay.UserToken{AccessToken: "user-2", RefreshToken: "refresh"}, nil).
		Once()

	_, err = f.ctrl.RefreshUserToken(ctx, v.ID)
	require.NoError(t, err)
}

func TestController_SessionSurvivesRestart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.authorize(t)
	f.fillProduct(t, id)

	_, err := f.ctrl.UpdateDraft(ctx, id, listing.DraftPatch{
		Price:         ptr(12.5),
		Weight:        ptr(0.3),
		Condition:     ptr("New with defects"),
		MarketplaceID: ptr("EBAY_GB"),
		Policies:      &listing.Policies{Fulfillment: "Standard", Payment: "Card", Return: "30 days"},
	})
	require.NoError(t, err)
	_, err = f.ctrl.AddImage(ctx, id, listing.Media{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0x00, 0x10}})
	require.NoError(t, err)
	_, err = f.ctrl.AddImage(ctx, id, listing.Media{Name: "b.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}})
	require.NoError(t, err)
	_, err = f.ctrl.SetVideo(ctx, id, listing.Media{Name: "demo.mp4", ContentType: "video/mp4", Data: []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p'}})
	require.NoError(t, err)

	f.mp.EXPECT().
		GetCategorySuggestions(mock.Anything, "iPhone 15 Apple", "EBAY_GB").
		Return([]ebay.CategorySuggestion{{AncestorName: "Mobile Phones", CategoryID: "9355", CategoryName: "Mobile & Smart Phones"}}, nil).
		Once()
	f.mp.EXPECT().
		GetCategoryAspects(mock.Anything, "9355", "EBAY_GB").
		Return([]ebay.CategoryAspect{
			{Name: "Brand", Mode: ebay.AspectModeFreeText, Required: true},
			{Name: "Storage Capacity", Mode: ebay.AspectModeSelectionOnly, AllowedValues: []string{"128 GB", "256 GB"}, Required: true},
		}, nil).
		Once()
	_, err = f.ctrl.SuggestCategories(ctx, id)
	require.NoError(t, err)
	_, err = f.ctrl.SelectCategory(ctx, id, 0)
	require.NoError(t, err)
	_, err = f.ctrl.SetAspect(ctx, id, "Brand", "Apple")
	require.NoError(t, err)
	_, err = f.ctrl.SetAspect(ctx, id, "Storage Capacity", "256 GB")
	require.NoError(t, err)

	f.writer.EXPECT().Backend().Return("stub")
	f.writer.EXPECT().
		Compose(mock.Anything, mock.Anything).
		Return(copywriter.Copy{Title: "Apple iPhone 15 256 GB", Description: "Lightly used."}, nil).
		Once()
	_, err = f.ctrl.GenerateListing(ctx, id)
	require.NoError(t, err)

	var before *listing.Session
	require.NoError(t, f.mgr.With(ctx, id, func(s *listing.Session) error {
		cp := *s
		before = &cp
		return nil
	}))

	// A fresh manager over the same store stands in for a new process.
	mgr := listing.NewManager(f.store, listing.WithManagerLogger(f.discard))
	ctrl := listing.NewController(mgr, f.factory, f.writer, listing.WithControllerLogger(f.discard))

	v, err := ctrl.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, listing.Authorized, v.AuthState)

	require.NoError(t, mgr.With(ctx, id, func(s *listing.Session) error {
		assert.Equal(t, before.Draft, s.Draft)
		assert.Equal(t, before.Suggestions, s.Suggestions)
		assert.Equal(t, before.Aspects, s.Aspects)
		assert.Equal(t, before.Environment, s.Environment)
		assert.Equal(t, before.State, s.State)
		require.Len(t, s.Draft.Images, 2)
		assert.Equal(t, []byte{0xff, 0xd8, 0x00, 0x10}, s.Draft.Images[0].Data)
		require.NotNil(t, s.Draft.Video)
		assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p'}, s.Draft.Video.Data)
		assert.Equal(t, "9355", s.Draft.SelectedCategory.CategoryID)
		assert.Equal(t, "Apple iPhone 15 256 GB", s.Draft.GeneratedTitle)

		tok, ok := s.Tokens.UserToken(ebay.Sandbox)
		require.True(t, ok)
		assert.Equal(t, "user", tok.AccessToken)
		return nil
	}))
}

func TestController_SaveFailureLeavesSessionUnchanged(t *testing.T) {
	t.Parallel()

	store := &toggleStore{MemoryStore: session.NewMemoryStore()}
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	mp := ebayMocks.NewMockMarketplace(t)
	mgr := listing.NewManager(store, listing.WithManagerLogger(discard))
	ctrl := listing.NewController(mgr,
		func(*ebay.TokenStore) ebay.Marketplace { return mp },
		copyMocks.NewMockCopywriter(t),
		listing.WithControllerLogger(discard),
	)
	ctx := context.Background()

	v, err := ctrl.NewSession(ctx, "")
	require.NoError(t, err)
	id := v.ID
	_, err = ctrl.UpdateDraft(ctx, id, listing.DraftPatch{Title: ptr("Before")})
	require.NoError(t, err)

	store.fail.Store(true)

	tests := []struct {
		name string
		call func() (listing.View, error)
	}{
		{
			name: "update draft",
			call: func() (listing.View, error) {
				return ctrl.UpdateDraft(ctx, id, listing.DraftPatch{Title: ptr("After")})
			},
		},
		{
			name: "add image",
			call: func() (listing.View, error) {
				return ctrl.AddImage(ctx, id, listing.Media{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte{0xff}})
			},
		},
		{
			name: "set video",
			call: func() (listing.View, error) {
				return ctrl.SetVideo(ctx, id, listing.Media{Name: "a.mp4", ContentType: "video/mp4", Data: []byte{0x00}})
			},
		},
		{
			name: "logout",
			call: func() (listing.View, error) {
				return ctrl.Logout(ctx, id)
			},
		},
	}

	for _, tt := range tests {
		v, err := tt.call()
		require.Error(t, err, tt.name)
		assert.Contains(t, err.Error(), "disk full", tt.name)
		assert.Equal(t, "Before", v.Draft.Title, tt.name)
	}

	require.NoError(t, mgr.With(ctx, id, func(s *listing.Session) error {
		assert.Equal(t, "Before", s.Draft.Title)
		assert.Empty(t, s.Draft.Images)
		assert.Nil(t, s.Draft.Video)
		assert.Equal(t, listing.Unauthenticated, s.State)
		return nil
	}))

	// Memory and store agree once saves work again.
	store.fail.Store(false)
	fresh := listing.NewManager(store, listing.WithManagerLogger(discard))
	require.NoError(t, fresh.With(ctx, id, func(s *listing.Session) error {
		assert.Equal(t, "Before", s.Draft.Title)
		assert.Empty(t, s.Draft.Images)
		return nil
	}))
}

func TestController_ConsentURLFailureKeepsState(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	v, err := f.ctrl.NewSession(ctx, "")
	require.NoError(t, err)

	f.expectAppTokens(2)
	f.mp.EXPECT().
		BuildAuthorizationURL(ebay.Sandbox, mock.Anything, v.ID).
		Return("", errors.New("redirect URI not configured")).
		Once()

	got, err := f.ctrl.Login(ctx, v.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building consent URL")
	assert.Equal(t, listing.Unauthenticated, got.AuthState)

	require.NoError(t, f.mgr.With(ctx, v.ID, func(s *listing.Session) error {
		assert.Equal(t, listing.Unauthenticated, s.State)
		assert.Empty(t, s.ConsentURL)
		return nil
	}))

	// The session can start over.
	f.expectAppTokens(2)
	f.mp.EXPECT().
		BuildAuthorizationURL(ebay.Sandbox, mock.Anything, v.ID).
		Return(consentURL, nil).
		Once()

	got, err = f.ctrl.Login(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, listing.AuthWaiting, got.AuthState)
	assert.Equal(t, consentURL, got.ConsentURL)
}

// toggleStore fails every Save while fail is set.
type toggleStore struct {
	*session.MemoryStore
	fail atomic.Bool
}

func (s *toggleStore) Save(ctx context.Context, id string, snap session.Snapshot) error {
	if s.fail.Load() {
		return errors.New("disk full")
	}
	return s.MemoryStore.Save(ctx, id, snap)
}

func TestController_UnknownSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ctrl.Get(ctx, "not-a-ulid")
	require.ErrorIs(t, err, listing.ErrSessionNotFound)

	_, err = f.ctrl.Get(ctx, "01HZX3K5W4T9Q8R7M6N5P4S3V2")
	require.ErrorIs(t, err, listing.ErrSessionNotFound)
	assert.Equal(t, 0, f.mgr.Len())

	_, err = f.ctrl.NewSession(ctx, ebay.Environment("staging"))
	require.ErrorIs(t, err, ebay.ErrUnknownEnvironment)
}

func TestController_DeleteSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	v, err := f.ctrl.NewSession(ctx, "")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.DeleteSession(ctx, v.ID))

	_, err = f.ctrl.Get(ctx, v.ID)
	require.ErrorIs(t, err, listing.ErrSessionNotFound)
}
