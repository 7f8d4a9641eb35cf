package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
server:
  external_url: https://app.example.com
oidc:
  issuer_url: https://idp.example.com
  client_id: session-guard
`

func TestParseConfig_AppliesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, DefaultServerConfig.Port, cfg.Server.Port)
	assert.Equal(t, DefaultServerConfig.StaticDir, cfg.Server.StaticDir)
	assert.Equal(t, "https://app.example.com/auth/signin-callback", cfg.OIDC.RedirectURI)
	assert.Equal(t, "https://app.example.com/auth/silent-callback", cfg.OIDC.SilentRedirectURI)
	assert.Equal(t, "https://app.example.com/auth/signout-callback", cfg.OIDC.PostLogoutRedirectURI)
	assert.Equal(t, DefaultOIDCConfig.Scopes, cfg.OIDC.Scopes)
	assert.Equal(t, "/", cfg.OIDC.DefaultReturnTo)
	assert.Equal(t, 10*time.Second, cfg.OIDC.DiscoveryTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "memory", cfg.Sessions.Store)
	assert.Equal(t, "session_guard", cfg.Sessions.Name)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.Lifetime)
	assert.True(t, cfg.Sessions.SecureCookie())
}

func TestParseConfig_InsecureCookieForHTTPExternalURL(t *testing.T) {
	cfg, err := ParseConfig([]byte(strings.Replace(minimalConfig, "https://app.example.com", "http://localhost:8080", 1)))
	require.NoError(t, err)

	assert.False(t, cfg.Sessions.SecureCookie())
	assert.Equal(t, "http://localhost:8080/auth/signin-callback", cfg.OIDC.RedirectURI)
}

func TestParseConfig_ExternalURLWithTrailingSlash(t *testing.T) {
	cfg, err := ParseConfig([]byte(strings.Replace(minimalConfig, "https://app.example.com", "https://app.example.com/", 1)))
	require.NoError(t, err)

	assert.Equal(t, "https://app.example.com/auth/signin-callback", cfg.OIDC.RedirectURI)
}

func TestParseConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"OIDC_CLIENT_SECRET", "from-env")
	t.Setenv(EnvPrefix+"OIDC_CLIENT_ID", "env-client")
	t.Setenv(EnvPrefix+"SERVER_PORT", "9090")
	t.Setenv(EnvPrefix+"REDIS_PASSWORD", "hunter2")

	cfg, err := ParseConfig([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.OIDC.ClientSecret)
	assert.Equal(t, "env-client", cfg.OIDC.ClientID)
	assert.Equal(t, 9090, cfg.Server.Port)
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
}

func TestParseConfig_InvalidEnvironmentOverride(t *testing.T) {
	t.Setenv(EnvPrefix+"SERVER_PORT", "not-a-port")

	_, err := ParseConfig([]byte(minimalConfig))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment overrides")
}

func TestParseConfig_Validation(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg []string
	}{
		{
			name:   "missing external url",
			yaml:   "oidc:\n  issuer_url: https://idp.example.com\n  client_id: abc\n",
			errMsg: []string{"server.external_url is required"},
		},
		{
			name: "missing client id and bad log format are both reported",
			yaml: `
server:
  external_url: https://app.example.com
oidc:
  issuer_url: https://idp.example.com
log:
  format: xml
`,
			errMsg: []string{"oidc.client_id is required", "invalid log format: xml"},
		},
		{
			name:   "external url with a base path",
			yaml:   strings.Replace(minimalConfig, "https://app.example.com", "https://app.example.com/app", 1),
			errMsg: []string{"server.external_url must not have a path"},
		},
		{
			name: "invalid issuer scheme",
			yaml: `
server:
  external_url: https://app.example.com
oidc:
  issuer_url: ftp://idp.example.com
  client_id: abc
`,
			errMsg: []string{"oidc.issuer_url must have http or https scheme"},
		},
		{
			name:   "scopes without openid",
			yaml:   minimalConfig + "  scopes: [profile, email]\n",
			errMsg: []string{"oidc.scopes must include openid"},
		},
		{
			name:   "cross origin default return to",
			yaml:   minimalConfig + "  default_return_to: https://evil.example.com/\n",
			errMsg: []string{"same origin"},
		},
		{
			name:   "relative default return to without leading slash",
			yaml:   minimalConfig + "  default_return_to: dashboard\n",
			errMsg: []string{"absolute path or URL"},
		},
		{
			name:   "invalid log level",
			yaml:   minimalConfig + "log:\n  level: verbose\n",
			errMsg: []string{"invalid log level: verbose"},
		},
		{
			name:   "invalid session store",
			yaml:   minimalConfig + "sessions:\n  store: postgres\n",
			errMsg: []string{"invalid session store: postgres"},
		},
		{
			name:   "session lifetime too short",
			yaml:   minimalConfig + "sessions:\n  lifetime: 10s\n",
			errMsg: []string{"sessions.lifetime cannot be less than 1 minute"},
		},
		{
			name:   "redis store without redis config",
			yaml:   minimalConfig + "sessions:\n  store: redis\n",
			errMsg: []string{"redis configuration is required"},
		},
		{
			name:   "redis address without port",
			yaml:   minimalConfig + "sessions:\n  store: redis\nredis:\n  address: localhost\n",
			errMsg: []string{"invalid redis address format"},
		},
		{
			name:   "sentinel without master name",
			yaml:   minimalConfig + "sessions:\n  store: redis\nredis:\n  sentinel:\n    addresses: [\"10.0.0.1:26379\"]\n",
			errMsg: []string{"sentinel master_name is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
			for _, msg := range tt.errMsg {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestParseConfig_RedisStore(t *testing.T) {
	cfg, err := ParseConfig([]byte(minimalConfig + "sessions:\n  store: redis\nredis:\n  address: localhost:6379\n  session_index: 3\n"))
	require.NoError(t, err)

	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 3, cfg.Redis.SessionIndex)
}

func TestLoadConfig_RequiresPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file path is required")
}
