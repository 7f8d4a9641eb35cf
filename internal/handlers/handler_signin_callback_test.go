package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"session-guard/internal/auth"
	"session-guard/internal/models"
	"session-guard/internal/testutil"

	"go.uber.org/mock/gomock"
)

const chromeUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestGETSigninCallbackHandler_ShouldRedirectWithSessionHint(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/auth/signin-callback?code=abc&state=123")
	tc.WithHeader("User-Agent", chromeUserAgent)
	defer tc.Finish()

	tc.MockUserManager.EXPECT().SigninRedirectCallback().Return(
		testutil.TestUser("sid-1"),
		&models.SigninState{ID: "123", ReturnTo: "/reports"},
		nil,
	)
	tc.MockSession.EXPECT().PutSessionHint(gomock.Any(), "sid-1")

	tc.CallHandler(GETSigninCallbackHandler)

	tc.AssertStatus(t, http.StatusFound)
	tc.AssertContentType(t, "text/html; charset=utf-8")
	tc.AssertLocationHeader(t, "/reports?sid_hint=sid-1")
	tc.AssertLogsContainMessage(t, slog.LevelInfo, "User successfully authenticated")

	record, ok := tc.LogHandler.FindRecord("User successfully authenticated")
	if !ok {
		t.Fatal("expected sign-in log record")
	}
	if record.Attrs["browser"] != "Chrome" {
		t.Errorf("Expected browser attribute Chrome, got %v", record.Attrs["browser"])
	}
}

func TestGETSigninCallbackHandler_ShouldUseDefaultReturnTo(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/auth/signin-callback?code=abc&state=123")
	defer tc.Finish()

	cfg := testutil.TestConfig()
	cfg.OIDC.DefaultReturnTo = "/home"
	tc.WithConfig(cfg)

	tc.MockUserManager.EXPECT().SigninRedirectCallback().Return(testutil.TestUser("sid-1"), &models.SigninState{ID: "123"}, nil)
	tc.MockSession.EXPECT().PutSessionHint(gomock.Any(), "sid-1")

	tc.CallHandler(GETSigninCallbackHandler)

	tc.AssertStatus(t, http.StatusFound)
	tc.AssertLocationHeader(t, "/home?sid_hint=sid-1")
}

func TestGETSigninCallbackHandler_ShouldRedirectToProviderErrorPage(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/auth/signin-callback?error=access_denied")
	defer tc.Finish()

	tc.MockUserManager.EXPECT().SigninRedirectCallback().Return(nil, nil, &auth.OIDCError{
		RedirectURL: "/error?error=access_denied",
		Message:     "access_denied",
	})

	tc.CallHandler(GETSigninCallbackHandler)

	tc.AssertStatus(t, http.StatusFound)
	tc.AssertLocationHeader(t, "/error?error=access_denied")
	tc.AssertLogsContainMessage(t, slog.LevelWarn, "Failed to handle OIDC callback")
}

func TestGETSigninCallbackHandler_ShouldRedirectToGenericErrorPage(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/auth/signin-callback?code=abc&state=123")
	defer tc.Finish()

	tc.MockUserManager.EXPECT().SigninRedirectCallback().Return(nil, nil, errors.New("session store unavailable"))

	tc.CallHandler(GETSigninCallbackHandler)

	tc.AssertStatus(t, http.StatusFound)
	tc.AssertLocationHeader(t, genericErrorURL)
	tc.AssertLogsContainMessage(t, slog.LevelError, "Failed to handle OIDC callback")
}
