package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	OIDC     OIDCConfig    `yaml:"oidc"`
	Log      LogConfig     `yaml:"log"`
	CORS     CORSConfig    `yaml:"cors"`
	Sessions SessionConfig `yaml:"sessions"`
	Redis    *RedisConfig  `yaml:"redis"`
}

type ServerConfig struct {
	Port        int                `yaml:"port"`
	ExternalURL string             `yaml:"external_url"`
	StaticDir   string             `yaml:"static_dir"`
	Debug       *ServerDebugConfig `yaml:"debug"`
}

var DefaultServerConfig = ServerConfig{
	Port:      8080,
	StaticDir: "web/dist",
}

type ServerDebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

var DefaultDebugConfig = ServerDebugConfig{
	Enabled: false,
	Host:    "localhost",
	Port:    5123,
}

type OIDCConfig struct {
	ClientID              string        `yaml:"client_id"`
	ClientSecret          string        `yaml:"client_secret"`
	IssuerURL             string        `yaml:"issuer_url"`
	RedirectURI           string        `yaml:"redirect_url"`
	SilentRedirectURI     string        `yaml:"silent_redirect_url"`
	PostLogoutRedirectURI string        `yaml:"post_logout_redirect_url"`
	Scopes                []string      `yaml:"scopes"`
	DefaultReturnTo       string        `yaml:"default_return_to"`
	RevokeOnSignout       bool          `yaml:"revoke_on_signout"`
	DiscoveryTimeout      time.Duration `yaml:"discovery_timeout"`
}

var DefaultOIDCConfig = OIDCConfig{
	Scopes:           []string{"openid", "profile", "email", "offline_access"},
	DefaultReturnTo:  "/",
	DiscoveryTimeout: 10 * time.Second,
}

const (
	PathSigninCallback  = "/auth/signin-callback"
	PathSilentCallback  = "/auth/silent-callback"
	PathSignoutCallback = "/auth/signout-callback"
)

type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	StackTraces bool   `yaml:"stack_traces"`
}

var DefaultLogConfig = LogConfig{
	Level:  "info",
	Format: "text",
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

var DefaultCORSConfig = CORSConfig{
	AllowedOrigins: []string{"http://localhost:5173"},
	AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	AllowedHeaders: []string{"*"},
	MaxAgeSeconds:  300,
}

type SessionConfig struct {
	Store       string        `yaml:"store"`
	Lifetime    time.Duration `yaml:"lifetime"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	Name        string        `yaml:"name"`
	Secure      *bool         `yaml:"secure"`
}

// SecureCookie reports whether the session cookie carries the Secure flag.
func (s SessionConfig) SecureCookie() bool {
	return s.Secure == nil || *s.Secure
}

var DefaultSessionConfig = SessionConfig{
	Store:    "memory",
	Lifetime: 24 * time.Hour,
	Name:     "session_guard",
}

type RedisConfig struct {
	Address      string               `yaml:"address"`
	Username     string               `yaml:"username"`
	Password     string               `yaml:"password"`
	Sentinel     *RedisSentinelConfig `yaml:"sentinel"`
	SessionIndex int                  `yaml:"session_index"`
}

type RedisSentinelConfig struct {
	MasterName        string   `yaml:"master_name"`
	SentinelAddresses []string `yaml:"addresses"`
	SentinelPassword  string   `yaml:"password"`
	SentinelUsername  string   `yaml:"username"`
}
