package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"session-guard/internal/metrics"
	"session-guard/internal/middlewares"
	"session-guard/internal/models"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// interaction errors a prompt=none request can come back with
var interactionRequiredErrors = map[string]bool{
	"login_required":             true,
	"interaction_required":       true,
	"consent_required":           true,
	"account_selection_required": true,
}

type userManager struct {
	provider *Provider
	ctx      *middlewares.AppContext
}

type idTokenClaims struct {
	Sid               string   `json:"sid"`
	Nonce             string   `json:"nonce"`
	PreferredUsername string   `json:"preferred_username"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Groups            []string `json:"groups"`
}

func (m *userManager) GetUser() (*models.User, error) {
	return m.ctx.SessionManager.GetUser(m.ctx)
}

func (m *userManager) RemoveUser() error {
	m.ctx.SessionManager.RemoveUser(m.ctx)
	return nil
}

// SigninSilent renews the cached user with its refresh token.
func (m *userManager) SigninSilent() (*models.User, error) {
	user, err := m.GetUser()
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %w", ErrLoginRequired, ErrNoRefreshToken)
	}

	renewed, _, err := m.refreshUser(user)
	if err != nil {
		return nil, err
	}

	if renewed.SessionID == "" {
		renewed.SessionID = user.SessionID
	}

	m.ctx.SessionManager.SetUser(m.ctx, renewed)
	return renewed, nil
}

// QuerySessionStatus learns the provider's current session id from a fresh
// ID token. Rotated tokens are kept, the cached profile is not otherwise
// touched.
func (m *userManager) QuerySessionStatus() (*models.SessionStatus, error) {
	user, err := m.GetUser()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNoUser
	}
	if user.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %w", ErrSessionStatusUnavailable, ErrNoRefreshToken)
	}

	renewed, idToken, err := m.refreshUser(user)
	if err != nil {
		return nil, err
	}
	if idToken == nil {
		return nil, fmt.Errorf("%w: refresh response carried no id_token", ErrSessionStatusUnavailable)
	}

	sid := renewed.SessionID

	renewed.SessionID = user.SessionID
	m.ctx.SessionManager.SetUser(m.ctx, renewed)

	return &models.SessionStatus{Sub: idToken.Subject, SessionID: sid}, nil
}

// refreshUser runs a refresh grant and returns a copy of user carrying the
// new tokens. The returned ID token is nil when the provider did not issue
// one.
func (m *userManager) refreshUser(user *models.User) (*models.User, *oidc.IDToken, error) {
	d, err := m.provider.discover(m.ctx)
	if err != nil {
		return nil, nil, err
	}

	token, err := m.provider.refresh(m.ctx, d, user.RefreshToken)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
			return nil, nil, fmt.Errorf("%w: %w", ErrLoginRequired, err)
		}
		return nil, nil, fmt.Errorf("refresh grant failed: %w", err)
	}

	renewed := *user
	renewed.AccessToken = token.AccessToken
	renewed.RefreshToken = token.RefreshToken
	renewed.ExpiresAt = token.Expiry
	renewed.SessionID = ""

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return &renewed, nil, nil
	}

	idToken, err := d.verifier.Verify(m.provider.clientContext(m.ctx), rawIDToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify refreshed ID token: %w", err)
	}

	if idToken.Subject != user.Sub {
		return nil, nil, fmt.Errorf("%w: refreshed ID token belongs to a different subject", ErrLoginRequired)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, nil, fmt.Errorf("failed to parse refreshed ID token claims: %w", err)
	}

	renewed.IDToken = rawIDToken
	renewed.SessionID = claims.Sid
	if renewed.ExpiresAt.IsZero() {
		renewed.ExpiresAt = idToken.Expiry
	}

	return &renewed, idToken, nil
}

func (m *userManager) SigninRedirect(args models.SigninArgs) (string, error) {
	return m.signinRedirect(args, false)
}

func (m *userManager) SigninSilentRedirect(args models.SigninArgs) (string, error) {
	return m.signinRedirect(args, true)
}

func (m *userManager) signinRedirect(args models.SigninArgs, silent bool) (string, error) {
	d, err := m.provider.discover(m.ctx)
	if err != nil {
		return "", err
	}

	state := &models.SigninState{
		ID:           uuid.NewString(),
		Nonce:        oauth2.GenerateVerifier(),
		CodeVerifier: oauth2.GenerateVerifier(),
		ReturnTo:     args.ReturnTo,
		Silent:       silent,
		CreatedAt:    m.provider.now(),
	}
	m.ctx.SessionManager.PutSigninState(m.ctx, state)

	oauth2Config := m.oauth2Config(d, silent)
	opts := []oauth2.AuthCodeOption{
		oidc.Nonce(state.Nonce),
		oauth2.S256ChallengeOption(state.CodeVerifier),
	}
	if silent {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", promptNone))
	}

	return oauth2Config.AuthCodeURL(state.ID, opts...), nil
}

func (m *userManager) oauth2Config(d *discovery, silent bool) oauth2.Config {
	cfg := d.oauth2Config
	if silent {
		cfg.RedirectURL = m.provider.cfg.SilentRedirectURI
	}
	return cfg
}

func (m *userManager) SigninRedirectCallback() (*models.User, *models.SigninState, error) {
	return m.completeSignin(false)
}

func (m *userManager) SigninSilentCallback() (*models.User, error) {
	user, _, err := m.completeSignin(true)
	return user, err
}

func (m *userManager) completeSignin(silent bool) (*models.User, *models.SigninState, error) {
	query := m.ctx.Request.URL.Query()

	if errorParam := query.Get("error"); errorParam != "" {
		// the state is spent even though the provider refused
		m.ctx.SessionManager.PopSigninState(m.ctx, query.Get("state"))
		return nil, nil, providerError(query)
	}

	state, ok := m.ctx.SessionManager.PopSigninState(m.ctx, query.Get("state"))
	if !ok {
		return nil, nil, newOIDCError("invalid_request", "Invalid state parameter", "invalid state parameter", ErrStateNotFound)
	}

	if state.Silent != silent {
		return nil, nil, newOIDCError("invalid_request", "Unexpected callback for this sign-in", "sign-in state used on the wrong callback", nil)
	}

	code := query.Get("code")
	if code == "" {
		return nil, nil, newOIDCError("invalid_request", "No authorization code received", "no authorization code received", nil)
	}

	d, err := m.provider.discover(m.ctx)
	if err != nil {
		return nil, nil, newOIDCError("server_error", "Identity provider unavailable", "provider discovery failed", err)
	}

	oauth2Config := m.oauth2Config(d, silent)
	clientCtx := m.provider.clientContext(m.ctx)

	start := time.Now()
	token, err := oauth2Config.Exchange(clientCtx, code, oauth2.VerifierOption(state.CodeVerifier))
	observeProviderCall(metrics.ProviderOperationExchange, start, err)
	if err != nil {
		return nil, nil, newOIDCError("invalid_grant", "Failed to exchange code for token", "failed to exchange code for token", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, nil, newOIDCError("invalid_token", "No id_token found in oauth2 token", "no id_token found in oauth2 token", nil)
	}

	idToken, err := d.verifier.Verify(clientCtx, rawIDToken)
	if err != nil {
		return nil, nil, newOIDCError("invalid_token", "Failed to verify ID Token", "failed to verify ID token", err)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, nil, newOIDCError("server_error", "Failed to extract user from ID Token", "failed to extract user from ID token", err)
	}

	if claims.Nonce != state.Nonce {
		return nil, nil, newOIDCError("server_error", "Invalid Nonce", "nonce in ID token is invalid", nil)
	}

	user := &models.User{
		Sub:          idToken.Subject,
		Iss:          idToken.Issuer,
		Username:     firstNonEmpty(claims.PreferredUsername, claims.Name),
		DisplayName:  claims.Name,
		Email:        claims.Email,
		Groups:       claims.Groups,
		SessionID:    claims.Sid,
		ExpiresAt:    token.Expiry,
		SignedInAt:   m.provider.now(),
		IDToken:      rawIDToken,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if user.ExpiresAt.IsZero() {
		user.ExpiresAt = idToken.Expiry
	}

	if err := m.mergeUserInfo(d, token, user); err != nil {
		m.ctx.Logger.Warn("failed to fetch user info, using ID token data only", "error", err)
	}

	// new privilege level, new session token
	if err := m.ctx.SessionManager.RenewToken(m.ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to renew session token: %w", err)
	}
	m.ctx.SessionManager.SetUser(m.ctx, user)

	return user, state, nil
}

// mergeUserInfo fills profile fields from the userinfo endpoint, keeping
// the ID token values where userinfo has nothing.
func (m *userManager) mergeUserInfo(d *discovery, token *oauth2.Token, user *models.User) error {
	if d.provider.UserInfoEndpoint() == "" {
		return nil
	}

	start := time.Now()
	userInfo, err := d.provider.UserInfo(m.provider.clientContext(m.ctx), oauth2.StaticTokenSource(token))
	observeProviderCall(metrics.ProviderOperationUserInfo, start, err)
	if err != nil {
		return fmt.Errorf("failed to get user info: %w", err)
	}

	if userInfo.Subject != user.Sub {
		return fmt.Errorf("user info subject %q does not match ID token", userInfo.Subject)
	}

	var claims struct {
		Username    string   `json:"preferred_username"`
		Name        string   `json:"name"`
		DisplayName string   `json:"display_name"`
		Email       string   `json:"email"`
		Groups      []string `json:"groups"`
	}

	if err := userInfo.Claims(&claims); err != nil {
		return fmt.Errorf("failed to parse user info claims: %w", err)
	}

	user.Username = firstNonEmpty(claims.Username, user.Username)
	user.DisplayName = firstNonEmpty(claims.DisplayName, claims.Name, user.DisplayName)
	user.Email = firstNonEmpty(claims.Email, user.Email)
	if len(claims.Groups) > 0 {
		user.Groups = claims.Groups
	}

	return nil
}

// SignoutRedirect forgets the local user and returns the provider URL that
// ends the provider session.
func (m *userManager) SignoutRedirect(args models.SignoutArgs) (string, error) {
	d, err := m.provider.discover(m.ctx)
	if err != nil {
		return "", err
	}

	user, err := m.GetUser()
	if err != nil {
		return "", err
	}

	state := &models.SignoutState{
		ID:        uuid.NewString(),
		ReturnTo:  args.ReturnTo,
		CreatedAt: m.provider.now(),
	}

	m.ctx.SessionManager.RemoveUser(m.ctx)
	if err := m.ctx.SessionManager.RenewToken(m.ctx); err != nil {
		return "", fmt.Errorf("failed to renew session token: %w", err)
	}
	m.ctx.SessionManager.PutSignoutState(m.ctx, state)

	postLogout := m.provider.cfg.PostLogoutRedirectURI

	if d.endSessionURL == "" {
		m.ctx.Logger.Debug("provider has no end_session_endpoint, signing out locally")
		return appendQuery(postLogout, url.Values{"state": {state.ID}})
	}

	values := url.Values{}
	if user != nil && user.IDToken != "" {
		values.Set("id_token_hint", user.IDToken)
	}
	values.Set("client_id", m.provider.cfg.ClientID)
	values.Set("post_logout_redirect_uri", postLogout)
	values.Set("state", state.ID)

	return appendQuery(d.endSessionURL, values)
}

func (m *userManager) SignoutRedirectCallback() (*models.SignoutState, error) {
	query := m.ctx.Request.URL.Query()

	if query.Get("error") != "" {
		return nil, providerError(query)
	}

	stateID := query.Get("state")
	if stateID == "" {
		return &models.SignoutState{}, nil
	}

	state, ok := m.ctx.SessionManager.PopSignoutState(m.ctx, stateID)
	if !ok {
		return nil, newOIDCError("invalid_request", "Invalid state parameter", "invalid sign-out state parameter", ErrStateNotFound)
	}

	return state, nil
}

// RevokeTokens revokes the user's refresh and access tokens at the
// provider's revocation endpoint. Providers without one are skipped.
func (m *userManager) RevokeTokens(user *models.User) error {
	if user == nil {
		return nil
	}

	d, err := m.provider.discover(m.ctx)
	if err != nil {
		return err
	}

	if d.revocationURL == "" {
		m.ctx.Logger.Debug("provider has no revocation_endpoint, skipping token revocation")
		return nil
	}

	tokens := []struct{ value, hint string }{
		{user.RefreshToken, "refresh_token"},
		{user.AccessToken, "access_token"},
	}

	for _, token := range tokens {
		if token.value == "" {
			continue
		}
		if err := m.revoke(d.revocationURL, token.value, token.hint); err != nil {
			return err
		}
	}

	return nil
}

func (m *userManager) revoke(endpoint, token, hint string) error {
	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", hint)

	cfg := m.provider.cfg
	if cfg.ClientSecret == "" {
		form.Set("client_id", cfg.ClientID)
	}

	ctx, cancel := context.WithTimeout(m.ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cfg.ClientSecret != "" {
		req.SetBasicAuth(url.QueryEscape(cfg.ClientID), url.QueryEscape(cfg.ClientSecret))
	}

	start := time.Now()
	resp, err := m.provider.httpClient.Do(req)
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
	}
	observeProviderCall(metrics.ProviderOperationRevoke, start, err)
	if err != nil {
		return fmt.Errorf("failed to revoke %s: %w", hint, err)
	}

	return nil
}

// providerError turns an error response from the provider into an OIDCError
// pointing at the error page.
func providerError(query url.Values) error {
	code := query.Get("error")

	values := url.Values{}
	values.Set("error", code)
	for _, key := range []string{"error_description", "error_uri", "state"} {
		if v := query.Get(key); v != "" {
			values.Set(key, v)
		}
	}

	oidcErr := &OIDCError{
		RedirectURL: "/error?" + values.Encode(),
		Message:     code,
	}
	if interactionRequiredErrors[code] {
		oidcErr.Err = ErrLoginRequired
	}

	return oidcErr
}

func appendQuery(rawURL string, values url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL %q: %w", rawURL, err)
	}

	query := u.Query()
	for key, vals := range values {
		for _, v := range vals {
			query.Set(key, v)
		}
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
