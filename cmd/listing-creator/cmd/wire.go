package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/ebay-listing-creator/api/openapi"
	"github.com/donaldgifford/ebay-listing-creator/internal/api/handlers"
	"github.com/donaldgifford/ebay-listing-creator/internal/api/middleware"
	"github.com/donaldgifford/ebay-listing-creator/internal/config"
	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
	"github.com/donaldgifford/ebay-listing-creator/internal/session"
	"github.com/donaldgifford/ebay-listing-creator/pkg/copywriter"
)

const apiTitle = "eBay Listing Creator API"

// tokenStoreFactory returns a constructor for per-session token stores
// carrying the configured endpoint overrides.
func tokenStoreFactory(cfg *config.EbayConfig) (func() *ebay.TokenStore, error) {
	var opts []ebay.TokenStoreOption
	for name, ep := range cfg.Endpoints {
		env, err := ebay.ParseEnvironment(name)
		if err != nil {
			return nil, fmt.Errorf("ebay.endpoints: %w", err)
		}
		opts = append(opts, ebay.WithEndpoints(env, ep))
	}
	return func() *ebay.TokenStore {
		return ebay.NewTokenStore(opts...)
	}, nil
}

// marketplaceFactory returns a factory building an OAuth client bound to a
// session's token store. All clients share rl.
func marketplaceFactory(
	cfg *config.EbayConfig,
	rl *ebay.RateLimiter,
	log *slog.Logger,
) (ebay.MarketplaceFactory, error) {
	catalog, err := ebay.ParseEnvironment(cfg.CatalogEnvironment)
	if err != nil {
		return nil, fmt.Errorf("ebay.catalog_environment: %w", err)
	}
	creds := cfg.Credentials()
	httpClient := &http.Client{Timeout: cfg.Timeout}

	return func(tokens *ebay.TokenStore) ebay.Marketplace {
		return ebay.NewOAuthClient(creds, tokens,
			ebay.WithHTTPClient(httpClient),
			ebay.WithRateLimiter(rl),
			ebay.WithCatalogEnvironment(catalog),
			ebay.WithLogger(log),
		)
	}, nil
}

// newLLMBackend builds the configured copy generation backend.
func newLLMBackend(cfg *config.LLMConfig) (copywriter.LLMBackend, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Backend {
	case "gemini":
		opts := []copywriter.GeminiOption{
			copywriter.WithGeminiModel(cfg.Gemini.Model),
			copywriter.WithGeminiHTTPClient(httpClient),
		}
		if cfg.Gemini.Endpoint != "" {
			opts = append(opts, copywriter.WithGeminiEndpoint(cfg.Gemini.Endpoint))
		}
		if cfg.Gemini.APIKey != "" {
			opts = append(opts, copywriter.WithGeminiAPIKey(cfg.Gemini.APIKey))
		}
		return copywriter.NewGeminiBackend(opts...), nil
	case "anthropic":
		opts := []copywriter.AnthropicOption{
			copywriter.WithAnthropicModel(cfg.Anthropic.Model),
			copywriter.WithAnthropicHTTPClient(httpClient),
		}
		if cfg.Anthropic.Endpoint != "" {
			opts = append(opts, copywriter.WithAnthropicEndpoint(cfg.Anthropic.Endpoint))
		}
		if cfg.Anthropic.APIKey != "" {
			opts = append(opts, copywriter.WithAnthropicAPIKey(cfg.Anthropic.APIKey))
		}
		return copywriter.NewAnthropicBackend(opts...), nil
	case "openai_compat":
		opts := []copywriter.OpenAICompatOption{copywriter.WithOpenAICompatHTTPClient(httpClient)}
		if cfg.OpenAICompat.APIKey != "" {
			opts = append(opts, copywriter.WithOpenAICompatAPIKey(cfg.OpenAICompat.APIKey))
		}
		return copywriter.NewOpenAICompatBackend(
			cfg.OpenAICompat.Endpoint,
			cfg.OpenAICompat.Model,
			opts...,
		), nil
	case "ollama":
		return copywriter.NewOllamaBackend(
			cfg.Ollama.Endpoint,
			cfg.Ollama.Model,
			copywriter.WithOllamaHTTPClient(httpClient),
		), nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}

// newCopywriter wraps the configured backend with generation settings.
func newCopywriter(cfg *config.LLMConfig, log *slog.Logger) (*copywriter.LLMCopywriter, error) {
	backend, err := newLLMBackend(cfg)
	if err != nil {
		return nil, err
	}
	return copywriter.NewLLMCopywriter(backend,
		copywriter.WithTemperature(cfg.Temperature),
		copywriter.WithMaxTokens(cfg.MaxTokens),
		copywriter.WithLogger(log),
	), nil
}

// newController assembles the session manager and listing controller over
// store.
func newController(
	cfg *config.Config,
	store session.Store,
	rl *ebay.RateLimiter,
	writer copywriter.Copywriter,
	log *slog.Logger,
) (*listing.Controller, error) {
	newTokens, err := tokenStoreFactory(&cfg.Ebay)
	if err != nil {
		return nil, err
	}
	newMarketplace, err := marketplaceFactory(&cfg.Ebay, rl, log)
	if err != nil {
		return nil, err
	}
	defaultEnv, err := ebay.ParseEnvironment(cfg.Ebay.DefaultEnvironment)
	if err != nil {
		return nil, fmt.Errorf("ebay.default_environment: %w", err)
	}

	mgr := listing.NewManager(store,
		listing.WithTokenStoreFactory(newTokens),
		listing.WithDefaultEnvironment(defaultEnv),
		listing.WithIdleTTL(cfg.Session.IdleTTL),
		listing.WithManagerLogger(log),
	)

	opts := []listing.ControllerOption{
		listing.WithAppTokenEnvironments(cfg.Ebay.Environments()...),
		listing.WithControllerLogger(log),
	}
	for name, scopes := range cfg.Ebay.Scopes {
		env, err := ebay.ParseEnvironment(name)
		if err != nil {
			return nil, fmt.Errorf("ebay.scopes: %w", err)
		}
		opts = append(opts, listing.WithScopes(env, scopes))
	}

	return listing.NewController(mgr, newMarketplace, writer, opts...), nil
}

// newAPIServer builds the Echo instance serving probes, metrics, the REST
// API and its OpenAPI document.
func newAPIServer(
	ctrl *listing.Controller,
	rl *ebay.RateLimiter,
	log *slog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(ctrl.Sessions()))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	hc := huma.DefaultConfig(apiTitle, Version)
	hc.Info.Description = "Drafts eBay listings with LLM generated copy and " +
		"category suggestions from the eBay Taxonomy API."
	hc.DocsPath = ""
	hc.OpenAPIPath = ""
	api := humaecho.New(e, hc)

	sessions := handlers.NewSessionsHandler(ctrl)
	handlers.RegisterSessionRoutes(api, sessions)
	handlers.RegisterMediaRoutes(api, sessions)
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(rl))

	openapi.RegisterRoutes(e, api)

	return e
}
