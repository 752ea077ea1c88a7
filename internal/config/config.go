// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/session"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Callback CallbackConfig `yaml:"callback"`
	Ebay     EbayConfig     `yaml:"ebay"`
	LLM      LLMConfig      `yaml:"llm"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns host:port.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CallbackConfig defines the OAuth callback listener. eBay redirects the
// seller here through the RuName configured in the developer portal.
type CallbackConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	UIURL string `yaml:"ui_url"`
}

// Addr returns host:port.
func (c *CallbackConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EbayConfig defines eBay API settings.
type EbayConfig struct {
	DefaultEnvironment string                    `yaml:"default_environment"`
	CatalogEnvironment string                    `yaml:"catalog_environment"`
	Production         CredentialsConfig         `yaml:"production"`
	Sandbox            CredentialsConfig         `yaml:"sandbox"`
	Endpoints          map[string]ebay.Endpoints `yaml:"endpoints"`
	Scopes             map[string][]string       `yaml:"scopes"`
	Timeout            time.Duration             `yaml:"timeout"`
	RateLimit          RateLimitConfig           `yaml:"rate_limit"`
}

// CredentialsConfig holds the application keys for one environment.
type CredentialsConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	DevID        string `yaml:"dev_id"`
	RuName       string `yaml:"ru_name"`
}

func (c CredentialsConfig) configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Credentials returns the environments that have a client ID and secret.
func (e *EbayConfig) Credentials() map[ebay.Environment]ebay.Credentials {
	out := map[ebay.Environment]ebay.Credentials{}
	for env, c := range map[ebay.Environment]CredentialsConfig{
		ebay.Production: e.Production,
		ebay.Sandbox:    e.Sandbox,
	} {
		if !c.configured() {
			continue
		}
		out[env] = ebay.Credentials{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			DevID:        c.DevID,
			RuName:       c.RuName,
		}
	}
	return out
}

// Environments returns the configured environments in stable order.
func (e *EbayConfig) Environments() []ebay.Environment {
	creds := e.Credentials()
	var out []ebay.Environment
	for _, env := range ebay.Environments {
		if _, ok := creds[env]; ok {
			out = append(out, env)
		}
	}
	return out
}

// RateLimitConfig defines eBay API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// LLMConfig defines the copywriter backend.
type LLMConfig struct {
	Backend      string          `yaml:"backend"` // gemini, anthropic, openai_compat, ollama
	Gemini       HostedLLMConfig `yaml:"gemini"`
	Anthropic    HostedLLMConfig `yaml:"anthropic"`
	OpenAICompat HostedLLMConfig `yaml:"openai_compat"`
	Ollama       OllamaConfig    `yaml:"ollama"`
	Temperature  float64         `yaml:"temperature"`
	MaxTokens    int             `yaml:"max_tokens"`
	Timeout      time.Duration   `yaml:"timeout"`
}

// HostedLLMConfig defines an API-key authenticated LLM endpoint. An empty
// API key falls back to the provider's usual environment variable.
type HostedLLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

// OllamaConfig defines Ollama-specific settings.
type OllamaConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// SessionConfig defines session persistence and eviction.
type SessionConfig struct {
	Backend         string         `yaml:"backend"` // file, sqlite, postgres, memory
	Dir             string         `yaml:"dir"`
	SQLitePath      string         `yaml:"sqlite_path"`
	Postgres        DatabaseConfig `yaml:"postgres"`
	IdleTTL         time.Duration  `yaml:"idle_ttl"`
	JanitorInterval time.Duration  `yaml:"janitor_interval"`
}

// StoreConfig returns the session.Open settings.
func (s *SessionConfig) StoreConfig() session.Config {
	cfg := session.Config{
		Backend:    s.Backend,
		Dir:        s.Dir,
		SQLitePath: s.SQLitePath,
	}
	if s.Backend == session.BackendPostgres {
		cfg.PostgresDSN = s.Postgres.DSN()
	}
	return cfg
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, pretty
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyCallbackDefaults(&cfg.Callback)
	applyEbayDefaults(&cfg.Ebay)
	applyLLMDefaults(&cfg.LLM)
	applySessionDefaults(&cfg.Session)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		// Copy generation can take a while on local models.
		s.WriteTimeout = 90 * time.Second
	}
}

func applyCallbackDefaults(c *CallbackConfig) {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.UIURL == "" {
		c.UIURL = "http://localhost:8501"
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.DefaultEnvironment == "" {
		e.DefaultEnvironment = string(ebay.Sandbox)
	}
	if e.CatalogEnvironment == "" {
		e.CatalogEnvironment = string(ebay.Production)
	}
	if e.Timeout == 0 {
		e.Timeout = 10 * time.Second
	}
	applyRateLimitDefaults(&e.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyLLMDefaults(l *LLMConfig) {
	if l.Backend == "" {
		l.Backend = "gemini"
	}
	if l.Gemini.Model == "" {
		l.Gemini.Model = "gemini-1.5-flash"
	}
	if l.Temperature == 0 {
		l.Temperature = 0.7
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = 1024
	}
	if l.Timeout == 0 {
		l.Timeout = 60 * time.Second
	}
}

func applySessionDefaults(s *SessionConfig) {
	if s.Backend == "" {
		s.Backend = session.BackendFile
	}
	if s.Dir == "" {
		s.Dir = ".sessions"
	}
	if s.SQLitePath == "" {
		s.SQLitePath = "sessions.db"
	}
	if s.Postgres.Port == 0 {
		s.Postgres.Port = 5432
	}
	if s.Postgres.SSLMode == "" {
		s.Postgres.SSLMode = "disable"
	}
	if s.IdleTTL == 0 {
		s.IdleTTL = 30 * time.Minute
	}
	if s.JanitorInterval == 0 {
		s.JanitorInterval = 5 * time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validatePort("server.port", cfg.Server.Port))
	errs = append(errs, validatePort("callback.port", cfg.Callback.Port))
	if cfg.Server.Port == cfg.Callback.Port && cfg.Server.Host == cfg.Callback.Host {
		errs = append(errs, fmt.Errorf("callback.port must differ from server.port"))
	}

	errs = append(errs, validateEbay(&cfg.Ebay)...)
	errs = append(errs, validateLLM(&cfg.LLM)...)
	errs = append(errs, validateSession(&cfg.Session)...)

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.Logging.Level) {
		errs = append(errs, fmt.Errorf(
			"logging.level must be one of: debug, info, warn, error (got %q)",
			cfg.Logging.Level,
		))
	}
	if !slices.Contains([]string{"text", "json", "pretty"}, cfg.Logging.Format) {
		errs = append(errs, fmt.Errorf(
			"logging.format must be one of: text, json, pretty (got %q)",
			cfg.Logging.Format,
		))
	}

	return errors.Join(errs...)
}

func validatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535 (got %d)", field, port)
	}
	return nil
}

func validateEbay(e *EbayConfig) []error {
	var errs []error

	creds := map[string]CredentialsConfig{
		string(ebay.Production): e.Production,
		string(ebay.Sandbox):    e.Sandbox,
	}

	def, ok := creds[e.DefaultEnvironment]
	switch {
	case !ok:
		errs = append(errs, fmt.Errorf(
			"ebay.default_environment must be production or sandbox (got %q)",
			e.DefaultEnvironment,
		))
	case !def.configured():
		errs = append(errs, fmt.Errorf(
			"ebay.%s.client_id and client_secret are required for the default environment",
			e.DefaultEnvironment,
		))
	case def.RuName == "":
		errs = append(errs, fmt.Errorf(
			"ebay.%s.ru_name is required for the default environment",
			e.DefaultEnvironment,
		))
	}

	cat, ok := creds[e.CatalogEnvironment]
	switch {
	case !ok:
		errs = append(errs, fmt.Errorf(
			"ebay.catalog_environment must be production or sandbox (got %q)",
			e.CatalogEnvironment,
		))
	case !cat.configured():
		errs = append(errs, fmt.Errorf(
			"ebay.%s.client_id and client_secret are required for taxonomy lookups",
			e.CatalogEnvironment,
		))
	}

	for name := range e.Endpoints {
		if _, ok := creds[name]; !ok {
			errs = append(errs, fmt.Errorf("ebay.endpoints has unknown environment %q", name))
		}
	}
	for name := range e.Scopes {
		if _, ok := creds[name]; !ok {
			errs = append(errs, fmt.Errorf("ebay.scopes has unknown environment %q", name))
		}
	}

	if e.RateLimit.PerSecond < 0 || e.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("ebay.rate_limit values must not be negative"))
	}

	return errs
}

func validateLLM(l *LLMConfig) []error {
	var errs []error

	switch l.Backend {
	case "gemini":
		if l.Gemini.Model == "" {
			errs = append(errs, fmt.Errorf("llm.gemini.model is required when backend is gemini"))
		}
	case "anthropic":
		if l.Anthropic.Model == "" {
			errs = append(
				errs,
				fmt.Errorf("llm.anthropic.model is required when backend is anthropic"),
			)
		}
	case "openai_compat":
		if l.OpenAICompat.Endpoint == "" {
			errs = append(
				errs,
				fmt.Errorf("llm.openai_compat.endpoint is required when backend is openai_compat"),
			)
		}
	case "ollama":
		if l.Ollama.Endpoint == "" {
			errs = append(
				errs,
				fmt.Errorf("llm.ollama.endpoint is required when backend is ollama"),
			)
		}
	default:
		errs = append(errs, fmt.Errorf(
			"llm.backend must be one of: gemini, anthropic, openai_compat, ollama (got %q)",
			l.Backend,
		))
	}

	if l.Temperature < 0 || l.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be between 0 and 2 (got %g)", l.Temperature))
	}

	return errs
}

func validateSession(s *SessionConfig) []error {
	var errs []error

	switch s.Backend {
	case session.BackendFile, session.BackendSQLite, session.BackendMemory:
	case session.BackendPostgres:
		if s.Postgres.Host == "" {
			errs = append(errs, fmt.Errorf("session.postgres.host is required"))
		}
		if s.Postgres.Name == "" {
			errs = append(errs, fmt.Errorf("session.postgres.name is required"))
		}
		if s.Postgres.User == "" {
			errs = append(errs, fmt.Errorf("session.postgres.user is required"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"session.backend must be one of: file, sqlite, postgres, memory (got %q)",
			s.Backend,
		))
	}

	if s.IdleTTL < 0 {
		errs = append(errs, fmt.Errorf("session.idle_ttl must not be negative"))
	}

	return errs
}
