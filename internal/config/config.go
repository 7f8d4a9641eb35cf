package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SESSION_GUARD_"

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required (use -config or -c)")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML config, applies environment overrides and
// validates the result.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := applyEnvironmentOverrides(&config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// environmentOverrides lists the settings that may come from the
// environment. Secrets should always be supplied this way.
type environmentOverrides struct {
	ServerPort            int    `env:"SERVER_PORT"`
	ServerExternalURL     string `env:"SERVER_EXTERNAL_URL"`
	OIDCClientID          string `env:"OIDC_CLIENT_ID"`
	OIDCClientSecret      string `env:"OIDC_CLIENT_SECRET"`
	OIDCIssuerURL         string `env:"OIDC_ISSUER_URL"`
	OIDCRedirectURL       string `env:"OIDC_REDIRECT_URL"`
	RedisAddress          string `env:"REDIS_ADDRESS"`
	RedisUsername         string `env:"REDIS_USERNAME"`
	RedisPassword         string `env:"REDIS_PASSWORD"`
	RedisSentinelUsername string `env:"REDIS_SENTINEL_USERNAME"`
	RedisSentinelPassword string `env:"REDIS_SENTINEL_PASSWORD"`
}

func applyEnvironmentOverrides(config *Config) error {
	var overrides environmentOverrides
	if err := env.ParseWithOptions(&overrides, env.Options{Prefix: EnvPrefix}); err != nil {
		return err
	}

	if overrides.ServerPort != 0 {
		config.Server.Port = overrides.ServerPort
	}

	setIfPresent(&config.Server.ExternalURL, overrides.ServerExternalURL)
	setIfPresent(&config.OIDC.ClientID, overrides.OIDCClientID)
	setIfPresent(&config.OIDC.ClientSecret, overrides.OIDCClientSecret)
	setIfPresent(&config.OIDC.IssuerURL, overrides.OIDCIssuerURL)
	setIfPresent(&config.OIDC.RedirectURI, overrides.OIDCRedirectURL)

	if overrides.RedisAddress != "" || overrides.RedisUsername != "" || overrides.RedisPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		setIfPresent(&config.Redis.Address, overrides.RedisAddress)
		setIfPresent(&config.Redis.Username, overrides.RedisUsername)
		setIfPresent(&config.Redis.Password, overrides.RedisPassword)
	}

	if overrides.RedisSentinelUsername != "" || overrides.RedisSentinelPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		setIfPresent(&config.Redis.Sentinel.SentinelUsername, overrides.RedisSentinelUsername)
		setIfPresent(&config.Redis.Sentinel.SentinelPassword, overrides.RedisSentinelPassword)
	}

	return nil
}

func setIfPresent(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// validateConfig applies defaults and reports every problem it finds, not
// just the first one.
func validateConfig(config *Config) error {
	var result *multierror.Error

	// later sections derive values from server.external_url
	if err := config.validateServerConfig(); err != nil {
		return multierror.Append(result, err)
	}

	validators := []func() error{
		config.validateOIDCConfig,
		config.validateLogConfig,
		config.validateCORSConfig,
		config.validateSessionConfig,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if config.Sessions.Store == "redis" {
		if err := config.validateRedisConfig(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerConfig.Port
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if err := validateURL(c.Server.ExternalURL, "server.external_url"); err != nil {
		return err
	}

	// every route is mounted at the root, so a base path would send the
	// provider callbacks to the guarded app route
	if external, _ := url.Parse(c.Server.ExternalURL); external.Path != "" && external.Path != "/" {
		return fmt.Errorf("server.external_url must not have a path, got %q", external.Path)
	}

	if c.Server.StaticDir == "" {
		c.Server.StaticDir = DefaultServerConfig.StaticDir
	}

	if c.Server.Debug != nil && c.Server.Debug.Enabled {
		if c.Server.Debug.Host == "" {
			c.Server.Debug.Host = DefaultDebugConfig.Host
		}
		if c.Server.Debug.Port <= 0 || c.Server.Debug.Port >= 65535 {
			c.Server.Debug.Port = DefaultDebugConfig.Port
		}
	}

	return nil
}

func (c *Config) validateOIDCConfig() error {
	if c.OIDC.ClientID == "" {
		return fmt.Errorf("oidc.client_id is required")
	}

	if err := validateURL(c.OIDC.IssuerURL, "oidc.issuer_url"); err != nil {
		return err
	}

	if c.OIDC.RedirectURI == "" {
		c.OIDC.RedirectURI = joinExternalURL(c.Server.ExternalURL, PathSigninCallback)
	}
	if c.OIDC.SilentRedirectURI == "" {
		c.OIDC.SilentRedirectURI = joinExternalURL(c.Server.ExternalURL, PathSilentCallback)
	}
	if c.OIDC.PostLogoutRedirectURI == "" {
		c.OIDC.PostLogoutRedirectURI = joinExternalURL(c.Server.ExternalURL, PathSignoutCallback)
	}

	for field, value := range map[string]string{
		"oidc.redirect_url":             c.OIDC.RedirectURI,
		"oidc.silent_redirect_url":      c.OIDC.SilentRedirectURI,
		"oidc.post_logout_redirect_url": c.OIDC.PostLogoutRedirectURI,
	} {
		if err := validateURL(value, field); err != nil {
			return err
		}
	}

	if len(c.OIDC.Scopes) == 0 {
		c.OIDC.Scopes = DefaultOIDCConfig.Scopes
	}

	if !slices.Contains(c.OIDC.Scopes, "openid") {
		return fmt.Errorf("oidc.scopes must include openid")
	}

	if c.OIDC.DefaultReturnTo == "" {
		c.OIDC.DefaultReturnTo = DefaultOIDCConfig.DefaultReturnTo
	}

	if err := c.validateDefaultReturnTo(); err != nil {
		return err
	}

	if c.OIDC.DiscoveryTimeout <= 0 {
		c.OIDC.DiscoveryTimeout = DefaultOIDCConfig.DiscoveryTimeout
	}

	return nil
}

// validateDefaultReturnTo only allows relative paths or absolute URLs on the
// external origin.
func (c *Config) validateDefaultReturnTo() error {
	target, err := url.Parse(c.OIDC.DefaultReturnTo)
	if err != nil {
		return fmt.Errorf("oidc.default_return_to is not a valid URL: %w", err)
	}

	if !target.IsAbs() {
		if !strings.HasPrefix(target.Path, "/") {
			return fmt.Errorf("oidc.default_return_to must be an absolute path or URL")
		}
		return nil
	}

	external, err := url.Parse(c.Server.ExternalURL)
	if err != nil {
		return err
	}

	if target.Scheme != external.Scheme || target.Host != external.Host {
		return fmt.Errorf("oidc.default_return_to must be on the same origin as server.external_url")
	}

	return nil
}

func (c *Config) validateLogConfig() error {
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig.Format
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s, options are text or json", c.Log.Format)
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig.Level
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s, options are debug, info, warn, error", c.Log.Level)
	}

	return nil
}

func (c *Config) validateCORSConfig() error {
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = DefaultCORSConfig.AllowedOrigins
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = DefaultCORSConfig.AllowedMethods
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = DefaultCORSConfig.AllowedHeaders
	}
	if c.CORS.MaxAgeSeconds == 0 {
		c.CORS.MaxAgeSeconds = DefaultCORSConfig.MaxAgeSeconds
	}

	return nil
}

func (c *Config) validateSessionConfig() error {
	if c.Sessions.Store == "" {
		c.Sessions.Store = DefaultSessionConfig.Store
	}

	switch c.Sessions.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid session store: %s, options are 'memory' or 'redis'", c.Sessions.Store)
	}

	if c.Sessions.Name == "" {
		c.Sessions.Name = DefaultSessionConfig.Name
	}

	if c.Sessions.Secure == nil {
		secure := strings.HasPrefix(c.Server.ExternalURL, "https://")
		c.Sessions.Secure = &secure
	}

	if c.Sessions.Lifetime == 0 {
		c.Sessions.Lifetime = DefaultSessionConfig.Lifetime
	} else if c.Sessions.Lifetime < time.Minute {
		return fmt.Errorf("sessions.lifetime cannot be less than 1 minute")
	}

	if c.Sessions.IdleTimeout < 0 {
		return fmt.Errorf("sessions.idle_timeout must not be negative")
	}

	return nil
}

func (c *Config) validateRedisConfig() error {
	if c.Redis == nil {
		return fmt.Errorf("redis configuration is required when sessions.store is 'redis'")
	}

	if c.Redis.Sentinel == nil {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required")
		}

		if _, _, err := net.SplitHostPort(c.Redis.Address); err != nil {
			return fmt.Errorf("invalid redis address format (expected host:port): %w", err)
		}
	}

	const maxRedisDB = 15
	if c.Redis.SessionIndex < 0 || c.Redis.SessionIndex > maxRedisDB {
		return fmt.Errorf("redis session_index must be between 0 and %d, got %d", maxRedisDB, c.Redis.SessionIndex)
	}

	if c.Redis.Sentinel != nil {
		if c.Redis.Sentinel.MasterName == "" {
			return fmt.Errorf("sentinel master_name is required")
		}
		if len(c.Redis.Sentinel.SentinelAddresses) == 0 {
			return fmt.Errorf("at least one sentinel address is required")
		}
	}

	return nil
}
