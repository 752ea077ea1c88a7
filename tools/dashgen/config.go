package main

import "errors"

// KnownMetrics is the set of metric names exported by the listing creator
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"elc_http_request_duration_seconds":        true,
	"elc_http_request_duration_seconds_bucket": true,
	"elc_http_requests_total":                  true,

	// Health metrics.
	"elc_healthz_up": true,
	"elc_readyz_up":  true,

	// eBay API metrics.
	"elc_ebay_api_calls_total":        true,
	"elc_ebay_token_grants_total":     true,
	"elc_ebay_daily_usage":            true,
	"elc_ebay_daily_limit_hits_total": true,

	// Copy generation metrics.
	"elc_copy_generation_duration_seconds_bucket": true,
	"elc_copy_generation_failures_total":          true,

	// Session metrics.
	"elc_sessions_active":        true,
	"elc_session_saves_total":    true,
	"elc_sessions_evicted_total": true,
	"elc_auth_transitions_total": true,

	// Recording rules.
	"elc:http_requests:rate5m":            true,
	"elc:http_errors:rate5m":              true,
	"elc:ebay_api_calls:rate5m":           true,
	"elc:ebay_token_failures:rate5m":      true,
	"elc:copy_generation_failures:rate5m": true,
	"elc:session_saves:rate5m":            true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
