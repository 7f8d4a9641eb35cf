package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"session-guard/internal/config"
	"session-guard/internal/metrics"
	"session-guard/internal/middlewares"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Provider is the long-lived handle on the identity provider. Discovery is
// performed on first use and cached for the life of the process.
type Provider struct {
	cfg        config.OIDCConfig
	logger     *slog.Logger
	httpClient *http.Client

	mu         sync.RWMutex
	discovered *discovery

	discoveryGroup singleflight.Group
	refreshGroup   singleflight.Group

	rotationsMu sync.Mutex
	rotations   map[string]rotation

	now func() time.Time
}

// rotationReuseWindow is how long the tokens from a refresh grant are handed
// to requests that still present the refresh token it redeemed.
const rotationReuseWindow = 10 * time.Second

type rotation struct {
	token    *oauth2.Token
	redeemed time.Time
}

type discovery struct {
	provider      *oidc.Provider
	oauth2Config  oauth2.Config
	verifier      *oidc.IDTokenVerifier
	endSessionURL string
	revocationURL string
}

// providerClaims holds the discovery fields go-oidc does not expose.
type providerClaims struct {
	EndSessionEndpoint string `json:"end_session_endpoint"`
	RevocationEndpoint string `json:"revocation_endpoint"`
}

func NewProvider(cfg config.OIDCConfig, logger *slog.Logger) *Provider {
	return &Provider{
		cfg:        cfg,
		logger:     logger,
		httpClient: cleanhttp.DefaultPooledClient(),
		rotations:  make(map[string]rotation),
		now:        time.Now,
	}
}

// NewUserManager returns a handle bound to the caller's session. It is cheap
// and must not be kept past the request.
func (p *Provider) NewUserManager(ctx *middlewares.AppContext) middlewares.UserManager {
	return &userManager{provider: p, ctx: ctx}
}

// Warmup performs discovery up front so the first request does not pay for
// it.
func (p *Provider) Warmup(ctx context.Context) error {
	_, err := p.discover(ctx)
	return err
}

// clientContext makes both go-oidc and oauth2 use the pooled client.
func (p *Provider) clientContext(ctx context.Context) context.Context {
	ctx = oidc.ClientContext(ctx, p.httpClient)
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

func (p *Provider) discover(ctx context.Context) (*discovery, error) {
	p.mu.RLock()
	d := p.discovered
	p.mu.RUnlock()
	if d != nil {
		return d, nil
	}

	result, err, _ := p.discoveryGroup.Do("discovery", func() (interface{}, error) {
		// detached so one cancelled request does not fail every waiter
		discoveryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.DiscoveryTimeout)
		defer cancel()

		start := time.Now()
		provider, err := oidc.NewProvider(p.clientContext(discoveryCtx), p.cfg.IssuerURL)
		observeProviderCall(metrics.ProviderOperationDiscovery, start, err)
		if err != nil {
			return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
		}

		var claims providerClaims
		if err := provider.Claims(&claims); err != nil {
			return nil, fmt.Errorf("failed to parse provider metadata: %w", err)
		}

		d := &discovery{
			provider: provider,
			oauth2Config: oauth2.Config{
				ClientID:     p.cfg.ClientID,
				ClientSecret: p.cfg.ClientSecret,
				Endpoint:     provider.Endpoint(),
				Scopes:       p.cfg.Scopes,
				RedirectURL:  p.cfg.RedirectURI,
			},
			verifier:      provider.Verifier(&oidc.Config{ClientID: p.cfg.ClientID, Now: p.now}),
			endSessionURL: claims.EndSessionEndpoint,
			revocationURL: claims.RevocationEndpoint,
		}

		p.mu.Lock()
		p.discovered = d
		p.mu.Unlock()

		p.logger.Info("discovered OIDC provider",
			"issuer", p.cfg.IssuerURL,
			"end_session", d.endSessionURL != "",
			"revocation", d.revocationURL != "")

		return d, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*discovery), nil
}

// refresh redeems a refresh token. Most providers rotate refresh tokens on
// use, so concurrent requests for the same token share one grant, and a
// request that loaded its session before the rotated token was stored gets
// the same result for a short while instead of redeeming the old token again.
func (p *Provider) refresh(ctx context.Context, d *discovery, refreshToken string) (*oauth2.Token, error) {
	sum := sha256.Sum256([]byte(refreshToken))
	key := hex.EncodeToString(sum[:])

	if token, ok := p.recentRotation(key); ok {
		return token, nil
	}

	result, err, _ := p.refreshGroup.Do(key, func() (interface{}, error) {
		start := time.Now()
		source := d.oauth2Config.TokenSource(p.clientContext(context.WithoutCancel(ctx)), &oauth2.Token{RefreshToken: refreshToken})
		token, err := source.Token()
		observeProviderCall(metrics.ProviderOperationRefresh, start, err)
		if err == nil {
			p.rememberRotation(key, token)
		}
		return token, err
	})
	if err != nil {
		return nil, err
	}

	return result.(*oauth2.Token), nil
}

func (p *Provider) recentRotation(key string) (*oauth2.Token, bool) {
	p.rotationsMu.Lock()
	defer p.rotationsMu.Unlock()

	r, ok := p.rotations[key]
	if !ok || p.now().Sub(r.redeemed) > rotationReuseWindow {
		return nil, false
	}
	return r.token, true
}

func (p *Provider) rememberRotation(key string, token *oauth2.Token) {
	p.rotationsMu.Lock()
	defer p.rotationsMu.Unlock()

	now := p.now()
	for k, r := range p.rotations {
		if now.Sub(r.redeemed) > rotationReuseWindow {
			delete(p.rotations, k)
		}
	}
	p.rotations[key] = rotation{token: token, redeemed: now}
}

func observeProviderCall(operation string, start time.Time, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailure
	}
	metrics.ProviderRequestDuration.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}
