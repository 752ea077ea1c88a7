package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux, err := newMux(testLogger(), "http://localhost:8000/callback")
	if err != nil {
		t.Fatalf("newMux: %v", err)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newClient points a real OAuth client at the mock for both environments.
func newClient(srv *httptest.Server) *ebay.OAuthClient {
	ep := ebay.Endpoints{API: srv.URL, Auth: srv.URL}
	tokens := ebay.NewTokenStore(
		ebay.WithEndpoints(ebay.Sandbox, ep),
		ebay.WithEndpoints(ebay.Production, ep),
	)
	creds := ebay.Credentials{ClientID: "app-id", ClientSecret: "cert-id", RuName: "Seller-App"}
	return ebay.NewOAuthClient(map[ebay.Environment]ebay.Credentials{
		ebay.Sandbox:    creds,
		ebay.Production: creds,
	}, tokens, ebay.WithLogger(testLogger()))
}

func TestTokenHandler_MissingAuth(t *testing.T) {
	handler := tokenHandler(testLogger())
	req := httptest.NewRequest(http.MethodPost, "/identity/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusUnauthorized)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["error"] != "invalid_client" {
		t.Errorf("error=%s, want invalid_client", resp["error"])
	}
}

func TestTokenHandler_UnsupportedGrant(t *testing.T) {
	handler := tokenHandler(testLogger())
	req := httptest.NewRequest(http.MethodPost, "/identity/v1/oauth2/token",
		strings.NewReader("grant_type=password"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("app-id", "cert-id")
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAuthorizeHandler_RedirectsToCallback(t *testing.T) {
	handler := authorizeHandler(testLogger(), "http://localhost:8000/callback")
	req := httptest.NewRequest(http.MethodGet, "/oauth2/authorize?client_id=app-id&state=01HZX3", http.NoBody)
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusFound)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parsing location: %v", err)
	}
	if loc.Host != "localhost:8000" || loc.Path != "/callback" {
		t.Errorf("location=%s, want the callback listener", loc)
	}
	if got := loc.Query().Get("code"); got != mockCode {
		t.Errorf("code=%q, want %q", got, mockCode)
	}
	if got := loc.Query().Get("state"); got != "01HZX3" {
		t.Errorf("state=%q, want 01HZX3", got)
	}
}

func TestMock_AppTokenAndTaxonomy(t *testing.T) {
	client := newClient(newTestServer(t))
	ctx := context.Background()

	if _, err := client.GetCategorySuggestions(ctx, "iphone", "EBAY_US"); err == nil {
		t.Fatal("expected taxonomy call without app token to fail")
	}

	tok, err := client.GetAppToken(ctx, ebay.Production)
	if err != nil {
		t.Fatalf("GetAppToken: %v", err)
	}
	if !strings.HasPrefix(tok.AccessToken, "mock-app-token-") {
		t.Errorf("access_token=%q", tok.AccessToken)
	}

	suggestions, err := client.GetCategorySuggestions(ctx, "iphone", "EBAY_US")
	if err != nil {
		t.Fatalf("GetCategorySuggestions: %v", err)
	}
	if len(suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(suggestions))
	}
	if suggestions[0].CategoryID != "9355" || suggestions[0].AncestorName != "Cell Phones & Accessories" {
		t.Errorf("first suggestion=%+v", suggestions[0])
	}

	treeID, err := client.GetDefaultCategoryTreeID(ctx, "EBAY_US")
	if err != nil {
		t.Fatalf("GetDefaultCategoryTreeID: %v", err)
	}
	if treeID != "0" {
		t.Errorf("tree=%q, want 0", treeID)
	}

	aspects, err := client.GetCategoryAspects(ctx, "9355", "EBAY_US")
	if err != nil {
		t.Fatalf("GetCategoryAspects: %v", err)
	}
	// Color is optional and filtered out.
	if len(aspects) != 3 {
		t.Fatalf("got %d aspects, want 3", len(aspects))
	}
	if aspects[2].Name != "Storage Capacity" || aspects[2].Mode != ebay.AspectModeSelectionOnly {
		t.Errorf("third aspect=%+v", aspects[2])
	}
}

func TestMock_UserTokenGrants(t *testing.T) {
	client := newClient(newTestServer(t))
	ctx := context.Background()

	if _, err := client.ExchangeAuthorizationCode(ctx, "wrong", ebay.Sandbox); err == nil {
		t.Fatal("expected invalid code to fail")
	}

	tok, err := client.ExchangeAuthorizationCode(ctx, mockCode, ebay.Sandbox)
	if err != nil {
		t.Fatalf("ExchangeAuthorizationCode: %v", err)
	}
	if tok.RefreshToken != mockRefreshToken {
		t.Errorf("refresh_token=%q", tok.RefreshToken)
	}

	refreshed, err := client.RefreshUserToken(ctx, tok.RefreshToken, nil, ebay.Sandbox)
	if err != nil {
		t.Fatalf("RefreshUserToken: %v", err)
	}
	if !strings.HasPrefix(refreshed.AccessToken, "mock-user-token-") {
		t.Errorf("access_token=%q", refreshed.AccessToken)
	}
}

func TestMock_ConsentURLRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(srv)

	consent, err := client.BuildAuthorizationURL(ebay.Sandbox, ebay.DefaultScopes(ebay.Sandbox), "01HZX3")
	if err != nil {
		t.Fatalf("BuildAuthorizationURL: %v", err)
	}

	hc := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := hc.Get(consent)
	if err != nil {
		t.Fatalf("GET consent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status=%d, want %d", resp.StatusCode, http.StatusFound)
	}
	loc, _ := url.Parse(resp.Header.Get("Location"))
	if loc.Query().Get("state") != "01HZX3" {
		t.Errorf("state not carried through: %s", loc)
	}
}
