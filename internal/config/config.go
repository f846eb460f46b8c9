package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents the configs model.
type Config struct {
	// Application is the model of application configs.
	Application struct {
		// Name of the application.
		Name string `mapstructure:"name"`
		// BaseURL is the external base URL of the application.
		// It can be http://localhost:8080 during development and https://gateway.example.com in production.
		BaseURL string `mapstructure:"base_url" validate:"required,url"`
		// PProf is a flag to enable/disable profiling.
		PProf bool `mapstructure:"pprof"`
	} `mapstructure:"application"`

	// HTTPServer is the model of the HTTP Server configs.
	HTTPServer struct {
		// Addr is the address of the HTTP server.
		Addr string `mapstructure:"addr" validate:"required"`
	} `mapstructure:"http_server"`

	// Logger is the model of the application logger configs.
	Logger struct {
		// Level of the logger.
		Level string `mapstructure:"level"`
		// Pretty is a flag that dictates whether the log output should be pretty (human-readable).
		Pretty bool `mapstructure:"pretty"`
	} `mapstructure:"logger"`

	// Okta holds the upstream identity provider configs.
	Okta struct {
		// Issuer is the base URL of the Okta org, example: https://acme.okta.com.
		// The discovery document lives at <issuer>/.well-known/openid-configuration.
		Issuer string `mapstructure:"issuer" validate:"required,url"`
		// ClientID of the application registered with Okta.
		ClientID string `mapstructure:"client_id" validate:"required"`
		// ClientSecret of the application registered with Okta.
		ClientSecret string `mapstructure:"client_secret" validate:"required"`
		// Scopes is the space-separated scope set requested during login.
		Scopes string `mapstructure:"scopes"`
		// RequestTimeout bounds discovery and every other outbound provider call.
		RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
		// MaxClockSkew is the tolerated clock difference between this process and Okta
		// when validating token timestamps.
		MaxClockSkew time.Duration `mapstructure:"max_clock_skew" validate:"gte=0"`
		// ExplicitLogout forwards logout to Okta's end-session endpoint when set.
		// Otherwise logout only destroys the local session.
		ExplicitLogout bool `mapstructure:"explicit_logout"`
		// DefaultRedirect is the destination used after login/logout when the caller
		// provides no redirect query parameter.
		DefaultRedirect string `mapstructure:"default_redirect" validate:"required"`
	} `mapstructure:"okta"`

	// Database is the model of the user database configs.
	Database struct {
		Addr     string `mapstructure:"addr" validate:"required"`
		Username string `mapstructure:"username" validate:"required"`
		Password string `mapstructure:"password"`
		Database string `mapstructure:"database" validate:"required"`
	} `mapstructure:"database"`

	// Session is the model of the session store configs.
	Session struct {
		// CookieName of the cookie that carries the session ID.
		CookieName string `mapstructure:"cookie_name" validate:"required"`
		// TTL of a session.
		TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
		// RedisAddr selects the Redis-backed session store when non-empty.
		// An empty value selects the in-memory store.
		RedisAddr string `mapstructure:"redis_addr"`
	} `mapstructure:"session"`

	// Token is the model of the gateway token configs.
	Token struct {
		// SigningKey is the symmetric key used to sign gateway tokens.
		SigningKey string `mapstructure:"signing_key" validate:"required,min=32"`
		// Issuer value stamped into gateway tokens.
		Issuer string `mapstructure:"issuer" validate:"required"`
		// TTL of a gateway token.
		TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
	} `mapstructure:"token"`
}

// Validate returns a non-nil error if any required config is missing or malformed.
// The process must not serve traffic if this fails.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load loads, defaults and validates the config value.
func Load() (Config, error) {
	conf, err := loadWithViper()
	if err != nil {
		return Config{}, err
	}

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

// LoadMock provides a mock instance of the config for testing purposes.
func LoadMock() Config {
	cfg := Config{}

	cfg.Application.Name = "okta-connector"
	cfg.Application.BaseURL = "https://example.org"
	cfg.HTTPServer.Addr = "localhost:8080"

	cfg.Logger.Level = "debug"
	cfg.Logger.Pretty = true

	cfg.Okta.Issuer = "https://acme.okta.com"
	cfg.Okta.ClientID = "mock-client-id"
	cfg.Okta.ClientSecret = "mock-client-secret"
	cfg.Okta.Scopes = defaultScopes
	cfg.Okta.RequestTimeout = defaultRequestTimeout
	cfg.Okta.MaxClockSkew = defaultMaxClockSkew
	cfg.Okta.DefaultRedirect = "https://example.org/home"

	cfg.Database.Addr = "localhost:5432"
	cfg.Database.Username = "postgres"
	cfg.Database.Database = "gateway"

	cfg.Session.CookieName = "session"
	cfg.Session.TTL = 12 * time.Hour

	cfg.Token.SigningKey = "0123456789abcdef0123456789abcdef"
	cfg.Token.Issuer = "gateway"
	cfg.Token.TTL = time.Hour

	return cfg
}
