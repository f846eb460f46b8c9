package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// defaultScopes is the scope set requested when none is configured.
	defaultScopes = "openid profile email"
	// defaultRequestTimeout bounds outbound provider calls when none is configured.
	defaultRequestTimeout = 10 * time.Second
	// defaultMaxClockSkew is the tolerated clock difference when none is configured.
	defaultMaxClockSkew = 120 * time.Second
)

// loadWithViper reads the config file (if present) and the environment.
//
// Every key can be overridden through the environment with the OKTACONN prefix,
// example: okta.client_secret becomes OKTACONN_OKTA_CLIENT_SECRET.
func loadWithViper() (Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/okta-connector")

	v.SetEnvPrefix("OKTACONN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("application.name", "okta-connector")
	v.SetDefault("http_server.addr", ":8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("okta.scopes", defaultScopes)
	v.SetDefault("okta.request_timeout", defaultRequestTimeout.String())
	v.SetDefault("okta.max_clock_skew", defaultMaxClockSkew.String())
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("token.issuer", "gateway")
	v.SetDefault("token.ttl", "1h")

	// A missing config file is fine, the environment may carry everything.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var conf Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&conf, hook); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return conf, nil
}
