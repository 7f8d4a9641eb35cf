package sessionguard

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"session-guard/internal/models"
	"session-guard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	signinURL  = "https://idp.example.com/authorize?state=in"
	signoutURL = "https://idp.example.com/logout?state=out"
)

func expiredUser(sid string) *models.User {
	user := testutil.TestUser(sid)
	user.ExpiresAt = time.Now().Add(-time.Minute)
	return user
}

// expectVerifiedSID stands in for the one-time marker left in the session by
// the sign-in callback. An empty sid means there is none.
func expectVerifiedSID(tc *testutil.TestContext, sid string) *gomock.Call {
	return tc.MockSession.EXPECT().PopSessionHint(gomock.Any()).Return(sid)
}

func TestAuthenticate_MatchingHintContinues(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/?sid_hint=abc")
	defer tc.Finish()

	tc.ExpectGetUser(testutil.TestUser("abc"), nil)
	expectVerifiedSID(tc, "abc")

	outcome, err := Authenticate(tc.AppContext)
	require.NoError(t, err)

	assert.False(t, outcome.Halted())
	assert.Equal(t, ReasonAuthenticated, outcome.Reason)
	assert.Equal(t, "abc", outcome.SessionID)
	assert.True(t, outcome.HintConsumed)
	assert.Empty(t, tc.Request.URL.Query().Get(SidHintParam))
	assert.Equal(t, "/", tc.Request.RequestURI)
}

func TestAuthenticate_MismatchedHintSignsOut(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/?sid_hint=xyz")
	defer tc.Finish()

	tc.ExpectGetUser(testutil.TestUser("abc"), nil)
	expectVerifiedSID(tc, "abc")
	tc.MockUserManager.EXPECT().SignoutRedirect(models.SignoutArgs{ReturnTo: ""}).Return(signoutURL, nil)

	outcome, err := Authenticate(tc.AppContext)
	require.NoError(t, err)

	assert.True(t, outcome.Halted())
	assert.Equal(t, signoutURL, outcome.Location)
	assert.Equal(t, ReasonSessionMismatch, outcome.Reason)
}

func TestAuthenticate_SigninWhenSilentRenewFails(t *testing.T) {
	tests := []struct {
		name       string
		cached     *models.User
		silentUser *models.User
		silentErr  error
	}{
		{
			name:      "no cached user and renew errors",
			silentErr: errors.New("login required"),
		},
		{
			name:      "expired user and renew errors",
			cached:    expiredUser("abc"),
			silentErr: errors.New("invalid_grant"),
		},
		{
			name:   "expired user and renew returns nobody",
			cached: expiredUser("abc"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/")
			defer tc.Finish()

			calls := []any{
				tc.ExpectGetUser(tt.cached, nil),
				tc.MockUserManager.EXPECT().SigninSilent().Return(tt.silentUser, tt.silentErr),
			}
			if tt.cached != nil {
				calls = append(calls, tc.MockUserManager.EXPECT().RemoveUser().Return(nil))
			}
			calls = append(calls, tc.MockUserManager.EXPECT().SigninRedirect(models.SigninArgs{ReturnTo: ""}).Return(signinURL, nil))
			gomock.InOrder(calls...)

			outcome, err := Authenticate(tc.AppContext)
			require.NoError(t, err)

			assert.True(t, outcome.Halted())
			assert.Equal(t, signinURL, outcome.Location)
			assert.Equal(t, ReasonSigninRequired, outcome.Reason)
		})
	}
}

func TestAuthenticate_SigninCarriesReturnTo(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/reports?range=7d")
	defer tc.Finish()

	tc.ExpectGetUser(nil, nil)
	tc.MockUserManager.EXPECT().SigninSilent().Return(nil, errors.New("login required"))
	tc.MockUserManager.EXPECT().
		SigninRedirect(models.SigninArgs{ReturnTo: "https://app.example.com/reports?range=7d"}).
		Return(signinURL, nil)

	outcome, err := Authenticate(tc.AppContext)
	require.NoError(t, err)
	assert.True(t, outcome.Halted())
}

func TestAuthenticate_RenewedUserIsChecked(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/?sid_hint=abc")
	defer tc.Finish()

	tc.ExpectGetUser(expiredUser("abc"), nil)
	tc.MockUserManager.EXPECT().SigninSilent().Return(testutil.TestUser("abc"), nil)
	expectVerifiedSID(tc, "abc")

	outcome, err := Authenticate(tc.AppContext)
	require.NoError(t, err)
	assert.False(t, outcome.Halted())
}

func TestAuthenticate_SessionStatus(t *testing.T) {
	tests := []struct {
		name           string
		status         *models.SessionStatus
		statusErr      error
		expectedReason string
	}{
		{
			name:           "provider session matches",
			status:         &models.SessionStatus{Sub: "user-123", SessionID: "abc"},
			expectedReason: ReasonAuthenticated,
		},
		{
			name:           "provider session differs",
			status:         &models.SessionStatus{Sub: "user-123", SessionID: "xyz"},
			expectedReason: ReasonSessionMismatch,
		},
		{
			name:           "query fails",
			statusErr:      errors.New("network down"),
			expectedReason: ReasonSessionStatusUnavailable,
		},
		{
			name:           "no status",
			expectedReason: ReasonSessionStatusUnavailable,
		},
		{
			name:           "status without session id",
			status:         &models.SessionStatus{Sub: "user-123"},
			expectedReason: ReasonSessionStatusUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/")
			defer tc.Finish()

			tc.ExpectGetUser(testutil.TestUser("abc"), nil)
			expectVerifiedSID(tc, "")
			tc.MockUserManager.EXPECT().QuerySessionStatus().Return(tt.status, tt.statusErr)
			if tt.expectedReason != ReasonAuthenticated {
				tc.MockUserManager.EXPECT().SignoutRedirect(gomock.Any()).Return(signoutURL, nil)
			}

			outcome, err := Authenticate(tc.AppContext)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedReason, outcome.Reason)
			assert.Equal(t, tt.expectedReason != ReasonAuthenticated, outcome.Halted())
		})
	}
}

func TestAuthenticate_HintSkipsSessionStatus(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/page?sid_hint=abc")
	defer tc.Finish()

	tc.ExpectGetUser(testutil.TestUser("abc"), nil)
	expectVerifiedSID(tc, "abc")
	tc.MockUserManager.EXPECT().QuerySessionStatus().Times(0)

	outcome, err := Authenticate(tc.AppContext)
	require.NoError(t, err)
	assert.False(t, outcome.Halted())
}

func TestAuthenticate_ReplayedHintQueriesSessionStatus(t *testing.T) {
	tests := []struct {
		name           string
		providerSID    string
		expectedReason string
	}{
		{name: "provider session still matches", providerSID: "abc", expectedReason: ReasonAuthenticated},
		{name: "provider session replaced", providerSID: "new", expectedReason: ReasonSessionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/page?sid_hint=abc")
			defer tc.Finish()

			tc.ExpectGetUser(testutil.TestUser("abc"), nil)
			expectVerifiedSID(tc, "")
			tc.MockUserManager.EXPECT().QuerySessionStatus().Return(&models.SessionStatus{Sub: "user-123", SessionID: tt.providerSID}, nil)
			if tt.expectedReason != ReasonAuthenticated {
				tc.MockUserManager.EXPECT().SignoutRedirect(models.SignoutArgs{ReturnTo: "https://app.example.com/page"}).Return(signoutURL, nil)
			}

			outcome, err := Authenticate(tc.AppContext)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedReason, outcome.Reason)
			assert.Empty(t, tc.Request.URL.Query().Get(SidHintParam))
		})
	}
}

func TestAuthenticate_VerifiedMarkerSkipsSessionStatus(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/page")
	defer tc.Finish()

	tc.ExpectGetUser(testutil.TestUser("abc"), nil)
	expectVerifiedSID(tc, "abc")
	tc.MockUserManager.EXPECT().QuerySessionStatus().Times(0)

	outcome, err := Authenticate(tc.AppContext)
	require.NoError(t, err)

	assert.False(t, outcome.Halted())
	assert.False(t, outcome.HintConsumed)
	assert.Equal(t, "abc", outcome.SessionID)
}

func TestAuthenticate_SignoutReturnToDropsHint(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/page?sid_hint=xyz&tab=2")
	defer tc.Finish()

	tc.ExpectGetUser(testutil.TestUser("abc"), nil)
	expectVerifiedSID(tc, "abc")
	tc.MockUserManager.EXPECT().
		SignoutRedirect(models.SignoutArgs{ReturnTo: "https://app.example.com/page?tab=2"}).
		Return(signoutURL, nil)

	outcome, err := Authenticate(tc.AppContext)
	require.NoError(t, err)
	assert.True(t, outcome.Halted())
}

func TestAuthenticate_PropagatesOtherFailures(t *testing.T) {
	t.Run("user store error", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		defer tc.Finish()

		storeErr := errors.New("redis unavailable")
		tc.ExpectGetUser(nil, storeErr)

		_, err := Authenticate(tc.AppContext)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("expired user cannot be removed", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		defer tc.Finish()

		storeErr := errors.New("redis unavailable")
		tc.ExpectGetUser(expiredUser("abc"), nil)
		tc.MockUserManager.EXPECT().SigninSilent().Return(nil, errors.New("invalid_grant"))
		tc.MockUserManager.EXPECT().RemoveUser().Return(storeErr)

		_, err := Authenticate(tc.AppContext)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("sign-in redirect cannot be built", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		defer tc.Finish()

		discoveryErr := errors.New("discovery failed")
		tc.ExpectGetUser(nil, nil)
		tc.MockUserManager.EXPECT().SigninSilent().Return(nil, errors.New("login required"))
		tc.MockUserManager.EXPECT().SigninRedirect(gomock.Any()).Return("", discoveryErr)

		_, err := Authenticate(tc.AppContext)
		assert.ErrorIs(t, err, discoveryErr)
	})

	t.Run("sign-out redirect cannot be built", func(t *testing.T) {
		tc := testutil.NewTestContextWithURL(t, http.MethodGet, testutil.TestExternalURL+"/?sid_hint=xyz")
		defer tc.Finish()

		discoveryErr := errors.New("discovery failed")
		tc.ExpectGetUser(testutil.TestUser("abc"), nil)
		expectVerifiedSID(tc, "abc")
		tc.MockUserManager.EXPECT().SignoutRedirect(gomock.Any()).Return("", discoveryErr)

		_, err := Authenticate(tc.AppContext)
		assert.ErrorIs(t, err, discoveryErr)
	})
}
