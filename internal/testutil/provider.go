package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
)

// FakeProvider is an in-process OpenID provider. It supports the
// authorization code grant with PKCE, the refresh grant, userinfo and
// token revocation.
type FakeProvider struct {
	Server   *httptest.Server
	ClientID string

	// Subject and SessionID go into every ID token issued from now on.
	Subject   string
	SessionID string

	// NoEndSession and NoRevocation drop the endpoints from discovery.
	NoEndSession bool
	NoRevocation bool
	// OmitRefreshIDToken makes refresh responses carry no id_token.
	OmitRefreshIDToken bool

	signer jose.Signer
	key    *rsa.PrivateKey

	mu            sync.Mutex
	codes         map[string]fakeGrant
	refreshTokens map[string]bool
	accessTokens  map[string]bool
	revoked       []string
	refreshes     int
}

type fakeGrant struct {
	nonce       string
	challenge   string
	redirectURI string
}

func NewFakeProvider(t *testing.T) *FakeProvider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: jose.JSONWebKey{Key: key, KeyID: "test-key"}},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}

	fp := &FakeProvider{
		ClientID:      "session-guard",
		Subject:       "user-123",
		SessionID:     "sid-1",
		signer:        signer,
		key:           key,
		codes:         make(map[string]fakeGrant),
		refreshTokens: make(map[string]bool),
		accessTokens:  make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/openid-configuration", fp.handleDiscovery)
	mux.HandleFunc("GET /jwks", fp.handleJWKS)
	mux.HandleFunc("POST /token", fp.handleToken)
	mux.HandleFunc("GET /userinfo", fp.handleUserInfo)
	mux.HandleFunc("POST /revoke", fp.handleRevoke)

	fp.Server = httptest.NewServer(mux)
	t.Cleanup(fp.Server.Close)

	return fp
}

func (fp *FakeProvider) Issuer() string {
	return fp.Server.URL
}

// Authorize plays the user agreeing at the authorization endpoint. It takes
// the URL the client redirected to and returns the code and state the
// provider would send back.
func (fp *FakeProvider) Authorize(t *testing.T, authURL string) (code, state string) {
	t.Helper()

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("invalid authorization URL: %v", err)
	}

	query := parsed.Query()
	if query.Get("client_id") != fp.ClientID {
		t.Fatalf("unexpected client_id %q", query.Get("client_id"))
	}
	if query.Get("code_challenge_method") != "S256" {
		t.Fatalf("expected S256 PKCE, got %q", query.Get("code_challenge_method"))
	}

	code = randomToken()

	fp.mu.Lock()
	fp.codes[code] = fakeGrant{
		nonce:       query.Get("nonce"),
		challenge:   query.Get("code_challenge"),
		redirectURI: query.Get("redirect_uri"),
	}
	fp.mu.Unlock()

	return code, query.Get("state")
}

// RevokedTokens returns every token passed to the revocation endpoint.
func (fp *FakeProvider) RevokedTokens() []string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return append([]string(nil), fp.revoked...)
}

// RefreshCount is the number of refresh grants served.
func (fp *FakeProvider) RefreshCount() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.refreshes
}

// SetSessionID changes the session id in ID tokens issued from now on, as
// if the user signed in again elsewhere.
func (fp *FakeProvider) SetSessionID(sid string) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.SessionID = sid
}

func (fp *FakeProvider) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	issuer := fp.Issuer()
	doc := map[string]any{
		"issuer":                                issuer,
		"authorization_endpoint":                issuer + "/authorize",
		"token_endpoint":                        issuer + "/token",
		"userinfo_endpoint":                     issuer + "/userinfo",
		"jwks_uri":                              issuer + "/jwks",
		"id_token_signing_alg_values_supported": []string{"RS256"},
		"code_challenge_methods_supported":      []string{"S256"},
	}
	if !fp.NoEndSession {
		doc["end_session_endpoint"] = issuer + "/logout"
	}
	if !fp.NoRevocation {
		doc["revocation_endpoint"] = issuer + "/revoke"
	}

	writeJSON(w, http.StatusOK, doc)
}

func (fp *FakeProvider) handleJWKS(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       &fp.key.PublicKey,
		KeyID:     "test-key",
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}}})
}

func (fp *FakeProvider) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		fp.exchangeCode(w, r)
	case "refresh_token":
		fp.refresh(w, r)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported_grant_type"})
	}
}

func (fp *FakeProvider) exchangeCode(w http.ResponseWriter, r *http.Request) {
	fp.mu.Lock()
	grant, ok := fp.codes[r.PostForm.Get("code")]
	delete(fp.codes, r.PostForm.Get("code"))
	fp.mu.Unlock()

	if !ok || grant.redirectURI != r.PostForm.Get("redirect_uri") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}

	sum := sha256.Sum256([]byte(r.PostForm.Get("code_verifier")))
	if base64.RawURLEncoding.EncodeToString(sum[:]) != grant.challenge {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant", "error_description": "PKCE verification failed"})
		return
	}

	fp.issueTokens(w, grant.nonce, true)
}

func (fp *FakeProvider) refresh(w http.ResponseWriter, r *http.Request) {
	token := r.PostForm.Get("refresh_token")

	fp.mu.Lock()
	ok := fp.refreshTokens[token]
	delete(fp.refreshTokens, token)
	if ok {
		fp.refreshes++
	}
	fp.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}

	fp.issueTokens(w, "", !fp.OmitRefreshIDToken)
}

func (fp *FakeProvider) issueTokens(w http.ResponseWriter, nonce string, withIDToken bool) {
	accessToken := randomToken()
	refreshToken := randomToken()

	fp.mu.Lock()
	fp.accessTokens[accessToken] = true
	fp.refreshTokens[refreshToken] = true
	sid := fp.SessionID
	fp.mu.Unlock()

	resp := map[string]any{
		"access_token":  accessToken,
		"token_type":    "Bearer",
		"expires_in":    3600,
		"refresh_token": refreshToken,
	}

	if withIDToken {
		idToken, err := fp.SignIDToken(map[string]any{"nonce": nonce, "sid": sid})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
			return
		}
		resp["id_token"] = idToken
	}

	writeJSON(w, http.StatusOK, resp)
}

// SignIDToken signs an ID token for the current subject. extra claims
// override the defaults, and empty string values are dropped.
func (fp *FakeProvider) SignIDToken(extra map[string]any) (string, error) {
	now := time.Now()
	claims := map[string]any{
		"iss":                fp.Issuer(),
		"sub":                fp.Subject,
		"aud":                fp.ClientID,
		"iat":                now.Unix(),
		"exp":                now.Add(time.Hour).Unix(),
		"name":               "Test User",
		"email":              "test@example.com",
		"preferred_username": "testuser",
	}
	for k, v := range extra {
		if s, ok := v.(string); ok && s == "" {
			delete(claims, k)
			continue
		}
		claims[k] = v
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	jws, err := fp.signer.Sign(payload)
	if err != nil {
		return "", fmt.Errorf("failed to sign ID token: %w", err)
	}

	return jws.CompactSerialize()
}

func (fp *FakeProvider) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	fp.mu.Lock()
	ok := fp.accessTokens[token]
	fp.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sub":                fp.Subject,
		"preferred_username": "testuser",
		"name":               "Test User",
		"email":              "test@example.com",
		"groups":             []string{"admin", "users"},
	})
}

func (fp *FakeProvider) handleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	token := r.PostForm.Get("token")

	fp.mu.Lock()
	fp.revoked = append(fp.revoked, token)
	delete(fp.refreshTokens, token)
	delete(fp.accessTokens, token)
	fp.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func randomToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
