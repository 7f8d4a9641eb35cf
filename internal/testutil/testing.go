package testutil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"session-guard/internal/config"
	"session-guard/internal/middlewares"
	"session-guard/internal/mocks"
	"session-guard/internal/models"

	"go.uber.org/mock/gomock"
)

const TestExternalURL = "https://app.example.com"

// TestContext holds everything needed for testing
type TestContext struct {
	AppContext      *middlewares.AppContext
	Request         *http.Request
	Response        *httptest.ResponseRecorder
	MockController  *gomock.Controller
	MockOIDC        *mocks.MockOIDCProvider
	MockUserManager *mocks.MockUserManager
	MockSession     *mocks.MockSessionProvider
	LogHandler      *TestLogHandler
}

// TestConfig returns a validated-looking config pointing at
// TestExternalURL.
func TestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        config.DefaultServerConfig.Port,
			ExternalURL: TestExternalURL,
			StaticDir:   config.DefaultServerConfig.StaticDir,
		},
		OIDC: config.OIDCConfig{
			ClientID:              "session-guard",
			IssuerURL:             "https://idp.example.com",
			RedirectURI:           TestExternalURL + config.PathSigninCallback,
			SilentRedirectURI:     TestExternalURL + config.PathSilentCallback,
			PostLogoutRedirectURI: TestExternalURL + config.PathSignoutCallback,
			Scopes:                config.DefaultOIDCConfig.Scopes,
			DefaultReturnTo:       config.DefaultOIDCConfig.DefaultReturnTo,
			DiscoveryTimeout:      config.DefaultOIDCConfig.DiscoveryTimeout,
		},
		Log:      config.DefaultLogConfig,
		CORS:     config.DefaultCORSConfig,
		Sessions: config.DefaultSessionConfig,
	}
}

func NewTestContext(t *testing.T) *TestContext {
	return NewTestContextWithURL(t, http.MethodGet, TestExternalURL+"/")
}

// NewTestContextWithURL creates a complete test setup with sensible defaults.
// The OIDC provider mock hands out MockUserManager for every call.
func NewTestContextWithURL(t *testing.T, method, target string) *TestContext {
	logHandler := NewTestLogHandler()
	logger := slog.New(logHandler)

	ctrl := gomock.NewController(t)

	mockOIDC := mocks.NewMockOIDCProvider(ctrl)
	mockUserManager := mocks.NewMockUserManager(ctrl)
	mockSession := mocks.NewMockSessionProvider(ctrl)

	mockOIDC.EXPECT().NewUserManager(gomock.Any()).Return(mockUserManager).AnyTimes()

	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()

	appCtx := &middlewares.AppContext{
		Context:        req.Context(),
		Config:         TestConfig(),
		Logger:         logger,
		SessionManager: mockSession,
		OIDCProvider:   mockOIDC,
		Request:        req,
		Response:       rr,
	}

	return &TestContext{
		AppContext:      appCtx,
		Request:         req,
		Response:        rr,
		MockController:  ctrl,
		MockOIDC:        mockOIDC,
		MockUserManager: mockUserManager,
		MockSession:     mockSession,
		LogHandler:      logHandler,
	}
}

// Finish should be called at the end of tests to clean up mocks
func (tc *TestContext) Finish() {
	if tc.MockController != nil {
		tc.MockController.Finish()
	}
}

// TestUser returns a signed in user valid for an hour.
func TestUser(sid string) *models.User {
	return &models.User{
		Sub:          "user-123",
		Iss:          "https://idp.example.com",
		Username:     "testuser",
		DisplayName:  "Test User",
		Email:        "test@example.com",
		Groups:       []string{"admin", "users"},
		SessionID:    sid,
		ExpiresAt:    time.Now().Add(time.Hour),
		SignedInAt:   time.Now(),
		IDToken:      "id-token",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
	}
}

// AssertLogsContainMessage checks that message was logged at level
func (tc *TestContext) AssertLogsContainMessage(t *testing.T, level slog.Level, message string) {
	t.Helper()
	if !tc.LogHandler.ContainsMessage(level, message) {
		t.Errorf("Expected to find log entry with level %v containing message: %s", level, message)
	}
}

func (tc *TestContext) AssertLogCount(t *testing.T, level slog.Level, expectedCount int) {
	t.Helper()
	count := tc.LogHandler.CountByLevel(level)
	if count != expectedCount {
		t.Errorf("Expected %d log entries at level %v, got %d", expectedCount, level, count)
	}
}

// CallHandler executes a handler with the test context
func (tc *TestContext) CallHandler(handler middlewares.AppHandler) {
	handler(tc.AppContext)
}

// AssertStatus checks the HTTP status code
func (tc *TestContext) AssertStatus(t *testing.T, expectedStatus int) {
	t.Helper()
	if tc.Response.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d", expectedStatus, tc.Response.Code)
	}
}

// AssertContentType checks the content type header
func (tc *TestContext) AssertContentType(t *testing.T, expectedType string) {
	t.Helper()
	if ct := tc.Response.Header().Get("Content-Type"); ct != expectedType {
		t.Errorf("Expected content type %s, got %s", expectedType, ct)
	}
}

// AssertLocationHeader checks the redirect target
func (tc *TestContext) AssertLocationHeader(t *testing.T, expected string) {
	t.Helper()
	if location := tc.Response.Header().Get("Location"); location != expected {
		t.Errorf("Expected Location %q, got %q", expected, location)
	}
}

// GetJSONResponse parses the response body as JSON
func (tc *TestContext) GetJSONResponse(t *testing.T) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(tc.Response.Body.Bytes(), &response); err != nil {
		t.Fatalf("Could not parse JSON response: %v", err)
	}
	return response
}

// GetResponseBody returns the raw response body
func (tc *TestContext) GetResponseBody() string {
	return tc.Response.Body.String()
}

// AssertJSONField checks a specific field in a JSON response
func (tc *TestContext) AssertJSONField(t *testing.T, field string, expected any) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	if actual, ok := response[field]; !ok || actual != expected {
		t.Errorf("Expected %s to be %v, got %v", field, expected, response[field])
	}
}

// AssertJSONObject validates an object field with expected key-value pairs
func (tc *TestContext) AssertJSONObject(t *testing.T, field string, expectedFields map[string]interface{}) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	actual, exists := response[field]

	if !exists {
		t.Errorf("Field %s not found in response", field)
		return
	}

	actualObj, ok := actual.(map[string]interface{})
	if !ok {
		t.Errorf("Expected %s to be an object, got %T", field, actual)
		return
	}

	for key, expectedValue := range expectedFields {
		if actualValue, keyExists := actualObj[key]; !keyExists {
			t.Errorf("Expected field %s.%s to exist", field, key)
		} else if actualValue != expectedValue {
			t.Errorf("Expected %s.%s to be %v, got %v", field, key, expectedValue, actualValue)
		}
	}
}

// WithConfig allows you to override the default config for specific tests
func (tc *TestContext) WithConfig(cfg *config.Config) *TestContext {
	tc.AppContext.Config = cfg
	return tc
}

// WithSessionManager allows you to override the session manager with a different mock or implementation
func (tc *TestContext) WithSessionManager(sm middlewares.SessionProvider) *TestContext {
	tc.AppContext.SessionManager = sm
	return tc
}

// WithQueryParam adds a query parameter to the request
func (tc *TestContext) WithQueryParam(key, value string) *TestContext {
	q := tc.Request.URL.Query()
	q.Add(key, value)
	tc.Request.URL.RawQuery = q.Encode()
	tc.Request.RequestURI = tc.Request.URL.RequestURI()
	return tc
}

// WithHeader sets a request header
func (tc *TestContext) WithHeader(key, value string) *TestContext {
	tc.Request.Header.Set(key, value)
	return tc
}

// WithRequest allows you to set a custom request (useful for tests that don't use URL constructor)
func (tc *TestContext) WithRequest(req *http.Request) *TestContext {
	tc.Request = req
	tc.AppContext.Request = req
	tc.AppContext.Context = req.Context()
	return tc
}

// ExpectGetUser sets up an expectation for UserManager.GetUser()
func (tc *TestContext) ExpectGetUser(user *models.User, err error) *gomock.Call {
	return tc.MockUserManager.EXPECT().GetUser().Return(user, err)
}

// QueryOf parses the query of an absolute or relative URL, failing the test
// on error.
func QueryOf(t *testing.T, rawURL string) url.Values {
	t.Helper()
	parsed, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("invalid URL %q: %v", rawURL, err)
	}
	return parsed.Query()
}
