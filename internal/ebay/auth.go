package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/donaldgifford/ebay-listing-creator/internal/metrics"
)

const (
	tokenPath     = "/identity/v1/oauth2/token" //nolint:gosec // not a credential
	authorizePath = "/oauth2/authorize"

	grantClientCredentials = "client_credentials"
	grantAuthorizationCode = "authorization_code"
	grantRefreshToken      = "refresh_token"
)

// OAuthClient implements Marketplace against the eBay REST endpoints.
// Tokens are read from and written to the TokenStore it was built with.
type OAuthClient struct {
	creds      map[Environment]Credentials
	tokens     *TokenStore
	client     *http.Client
	limiter    *RateLimiter
	catalogEnv Environment
	log        *slog.Logger
}

// OAuthOption configures the OAuthClient.
type OAuthOption func(*OAuthClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) OAuthOption {
	return func(o *OAuthClient) {
		o.client = c
	}
}

// WithRateLimiter guards every outbound call with r.
func WithRateLimiter(r *RateLimiter) OAuthOption {
	return func(o *OAuthClient) {
		o.limiter = r
	}
}

// WithCatalogEnvironment selects the environment whose app token and API
// host are used for taxonomy lookups. Defaults to production.
func WithCatalogEnvironment(env Environment) OAuthOption {
	return func(o *OAuthClient) {
		o.catalogEnv = env
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) OAuthOption {
	return func(o *OAuthClient) {
		o.log = l
	}
}

// NewOAuthClient creates a new eBay OAuth and Taxonomy client.
func NewOAuthClient(
	creds map[Environment]Credentials,
	tokens *TokenStore,
	opts ...OAuthOption,
) *OAuthClient {
	c := &OAuthClient{
		creds:      creds,
		tokens:     tokens,
		client:     &http.Client{Timeout: 10 * time.Second},
		catalogEnv: Production,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens returns the store backing the client.
func (c *OAuthClient) Tokens() *TokenStore {
	return c.tokens
}

// BasicAuth returns the Authorization header value for the token endpoint.
func BasicAuth(clientID, clientSecret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString(
		[]byte(clientID+":"+clientSecret),
	)
}

// GetAppToken runs the client-credentials grant for env and stores the
// resulting token.
func (c *OAuthClient) GetAppToken(
	ctx context.Context,
	env Environment,
) (*AppToken, error) {
	form := url.Values{
		"grant_type": {grantClientCredentials},
		"scope":      {AppScope},
	}

	status, body, err := c.postToken(ctx, env, grantClientCredentials, form)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &TokenError{Grant: grantClientCredentials, StatusCode: status, Body: string(body)}
	}

	// An unparseable body is reported like a missing access_token.
	var tok AppToken
	if err := json.Unmarshal(body, &tok); err != nil || !tok.Valid() {
		return nil, &TokenError{Grant: grantClientCredentials, StatusCode: status, Body: string(body)}
	}

	c.tokens.SetAppToken(env, &tok)
	c.log.Debug("acquired app token", "env", env, "expires_in", tok.ExpiresIn)
	return &tok, nil
}

// BuildAuthorizationURL returns the consent URL for env. It performs no
// I/O and returns identical output for identical input. The state
// parameter is omitted when empty.
func (c *OAuthClient) BuildAuthorizationURL(
	env Environment,
	scopes []string,
	state string,
) (string, error) {
	ep, err := c.tokens.Endpoints(env)
	if err != nil {
		return "", err
	}
	creds, err := c.credentials(env)
	if err != nil {
		return "", err
	}

	cfg := oauth2.Config{
		ClientID:    creds.ClientID,
		RedirectURL: creds.RuName,
		Scopes:      scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  ep.Auth + authorizePath,
			TokenURL: ep.API + tokenPath,
		},
	}
	return cfg.AuthCodeURL(state), nil
}

// ExchangeAuthorizationCode runs the authorization-code grant. The decoded
// token is stored even when the response is a failure, so callers must
// check Valid before treating the exchange as successful.
func (c *OAuthClient) ExchangeAuthorizationCode(
	ctx context.Context,
	code string,
	env Environment,
) (*UserToken, error) {
	creds, err := c.credentials(env)
	if err != nil {
		return nil, err
	}
	form := url.Values{
		"grant_type":   {grantAuthorizationCode},
		"code":         {code},
		"redirect_uri": {creds.RuName},
	}
	return c.userGrant(ctx, env, grantAuthorizationCode, form)
}

// RefreshUserToken runs the refresh-token grant and replaces the stored
// user token for env. scopes must be the list the user consented to, as a
// refresh may not widen the grant; nil falls back to DefaultScopes.
func (c *OAuthClient) RefreshUserToken(
	ctx context.Context,
	refreshToken string,
	scopes []string,
	env Environment,
) (*UserToken, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refreshing user token: %w", ErrTokenRequired)
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes(env)
	}
	form := url.Values{
		"grant_type":    {grantRefreshToken},
		"refresh_token": {refreshToken},
		"scope":         {strings.Join(scopes, " ")},
	}
	return c.userGrant(ctx, env, grantRefreshToken, form)
}

func (c *OAuthClient) userGrant(
	ctx context.Context,
	env Environment,
	grant string,
	form url.Values,
) (*UserToken, error) {
	status, body, err := c.postToken(ctx, env, grant, form)
	if err != nil {
		return nil, err
	}

	// The decoded token is stored whatever the outcome; a body that is not
	// a token object stores an empty one.
	var tok UserToken
	if err := json.Unmarshal(body, &tok); err != nil {
		tok = UserToken{}
	}
	c.tokens.SetUserToken(env, &tok)

	if status < 200 || status > 299 || !tok.Valid() {
		return &tok, &TokenError{Grant: grant, StatusCode: status, Body: string(body)}
	}

	c.log.Debug("acquired user token", "env", env, "grant", grant)
	return &tok, nil
}

func (c *OAuthClient) postToken(
	ctx context.Context,
	env Environment,
	grant string,
	form url.Values,
) (int, []byte, error) {
	ep, err := c.tokens.Endpoints(env)
	if err != nil {
		return 0, nil, err
	}
	creds, err := c.credentials(env)
	if err != nil {
		return 0, nil, err
	}

	if err := c.wait(ctx); err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		ep.API+tokenPath,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", BasicAuth(creds.ClientID, creds.ClientSecret))

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.TokenGrantsTotal.WithLabelValues(grant, "error").Inc()
		return 0, nil, fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading token response: %w", err)
	}

	metrics.TokenGrantsTotal.WithLabelValues(grant, statusClass(resp.StatusCode)).Inc()
	return resp.StatusCode, body, nil
}

func (c *OAuthClient) credentials(env Environment) (Credentials, error) {
	if !env.Valid() {
		return Credentials{}, fmt.Errorf("%w: %q", ErrUnknownEnvironment, env)
	}
	creds, ok := c.creds[env]
	if !ok || creds.ClientID == "" {
		return Credentials{}, fmt.Errorf("%w for %s", ErrMissingCredentials, env)
	}
	return creds, nil
}

func (c *OAuthClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			metrics.EbayDailyLimitHits.Inc()
		}
		return fmt.Errorf("rate limit: %w", err)
	}
	metrics.EbayDailyUsage.Set(float64(c.limiter.DailyCount()))
	return nil
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code <= 299:
		return "ok"
	case code == http.StatusUnauthorized:
		return "unauthorized"
	case code >= 400 && code <= 499:
		return "client_error"
	default:
		return "server_error"
	}
}
