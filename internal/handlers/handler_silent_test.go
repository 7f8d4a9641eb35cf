package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"session-guard/internal/auth"
	"session-guard/internal/models"
	"session-guard/internal/testutil"

	"go.uber.org/mock/gomock"
)

func TestGETSilentSigninHandler_ShouldRedirectToProvider(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/auth/silent")
	defer tc.Finish()

	tc.MockUserManager.EXPECT().SigninSilentRedirect(models.SigninArgs{}).Return("https://idp.example.com/authorize?prompt=none", nil)

	tc.CallHandler(GETSilentSigninHandler)

	tc.AssertStatus(t, http.StatusFound)
	tc.AssertLocationHeader(t, "https://idp.example.com/authorize?prompt=none")
}

func TestGETSilentSigninHandler_ShouldReportFailureToParent(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/auth/silent")
	defer tc.Finish()

	tc.MockUserManager.EXPECT().SigninSilentRedirect(gomock.Any()).Return("", errors.New("discovery failed"))

	tc.CallHandler(GETSilentSigninHandler)

	tc.AssertStatus(t, http.StatusInternalServerError)
	tc.AssertContentType(t, "text/html; charset=utf-8")

	body := tc.GetResponseBody()
	if !strings.Contains(body, `"ok":false`) || !strings.Contains(body, "server_error") {
		t.Errorf("Expected failure message in body, got %s", body)
	}
}

func TestGETSilentCallbackHandler_ShouldPostSuccess(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/auth/silent-callback?code=abc&state=123")
	defer tc.Finish()

	tc.MockUserManager.EXPECT().SigninSilentCallback().Return(testutil.TestUser("sid-1"), nil)

	tc.CallHandler(GETSilentCallbackHandler)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertContentType(t, "text/html; charset=utf-8")

	if cc := tc.Response.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Expected Cache-Control no-store, got %q", cc)
	}

	body := tc.GetResponseBody()
	for _, expected := range []string{"window.parent.postMessage", SilentMessageType, `"ok":true`, "app.example.com"} {
		if !strings.Contains(body, expected) {
			t.Errorf("Expected body to contain %q, got %s", expected, body)
		}
	}
}

func TestGETSilentCallbackHandler_ShouldPostProviderError(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/auth/silent-callback?error=login_required&state=123")
	defer tc.Finish()

	tc.MockUserManager.EXPECT().SigninSilentCallback().Return(nil, &auth.OIDCError{Message: "login_required", Err: auth.ErrLoginRequired})

	tc.CallHandler(GETSilentCallbackHandler)

	tc.AssertStatus(t, http.StatusOK)

	body := tc.GetResponseBody()
	if !strings.Contains(body, `"ok":false`) || !strings.Contains(body, "login_required") {
		t.Errorf("Expected login_required failure in body, got %s", body)
	}
}

func TestGETSilentCallbackHandler_ShouldEscapeErrorCode(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/auth/silent-callback?error=%3C%2Fscript%3E")
	defer tc.Finish()

	tc.MockUserManager.EXPECT().SigninSilentCallback().Return(nil, errors.New("bad"))

	tc.CallHandler(GETSilentCallbackHandler)

	if strings.Contains(tc.GetResponseBody(), "</script></script>") {
		t.Error("Expected error code to be escaped")
	}
}
