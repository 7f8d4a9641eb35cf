package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"session-guard/internal/models"
	"session-guard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionManager(t *testing.T) (*SessionManager, context.Context) {
	t.Helper()

	sm, err := NewSessionManager(slog.New(testutil.NewTestLogHandler()), testutil.TestConfig())
	require.NoError(t, err)

	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)

	return sm, ctx
}

func TestNewSessionManager_CookieSettings(t *testing.T) {
	cfg := testutil.TestConfig()
	secure := false
	cfg.Sessions.Secure = &secure
	cfg.Sessions.Name = "custom"

	sm, err := NewSessionManager(slog.New(testutil.NewTestLogHandler()), cfg)
	require.NoError(t, err)

	assert.Equal(t, "custom", sm.Cookie.Name)
	assert.False(t, sm.Cookie.Secure)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sm.Cookie.SameSite)
	assert.Equal(t, cfg.Sessions.Lifetime, sm.Lifetime)
	assert.NoError(t, sm.Close())
}

func TestNewSessionManager_UnsupportedStore(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.Sessions.Store = "postgres"

	_, err := NewSessionManager(slog.New(testutil.NewTestLogHandler()), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported session store")
}

func TestSessionManager_User(t *testing.T) {
	sm, ctx := newTestSessionManager(t)

	user, err := sm.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	expected := testutil.TestUser("abc")
	sm.SetUser(ctx, expected)

	user, err = sm.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, user)

	sm.RemoveUser(ctx)

	user, err = sm.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSessionManager_GetUserWithCorruptValue(t *testing.T) {
	sm, ctx := newTestSessionManager(t)

	sm.Put(ctx, string(SessionKeyUser), "not a user")

	user, err := sm.GetUser(ctx)
	assert.Nil(t, user)
	assert.Error(t, err)
}

func TestSessionManager_SigninStateIsConsumedOnce(t *testing.T) {
	sm, ctx := newTestSessionManager(t)

	sm.PutSigninState(ctx, &models.SigninState{ID: "one", ReturnTo: "/a", CreatedAt: time.Now()})
	sm.PutSigninState(ctx, &models.SigninState{ID: "two", ReturnTo: "/b", CreatedAt: time.Now()})

	state, ok := sm.PopSigninState(ctx, "two")
	require.True(t, ok)
	assert.Equal(t, "/b", state.ReturnTo)

	_, ok = sm.PopSigninState(ctx, "two")
	assert.False(t, ok)

	state, ok = sm.PopSigninState(ctx, "one")
	require.True(t, ok)
	assert.Equal(t, "/a", state.ReturnTo)

	_, ok = sm.PopSigninState(ctx, "")
	assert.False(t, ok)
}

func TestSessionManager_StaleStatesAreRejected(t *testing.T) {
	sm, ctx := newTestSessionManager(t)

	old := time.Now().Add(-stateMaxAge - time.Minute)
	sm.PutSigninState(ctx, &models.SigninState{ID: "old", CreatedAt: old})
	sm.PutSignoutState(ctx, &models.SignoutState{ID: "old", CreatedAt: old})

	_, ok := sm.PopSigninState(ctx, "old")
	assert.False(t, ok)

	_, ok = sm.PopSignoutState(ctx, "old")
	assert.False(t, ok)
}

func TestSessionManager_SessionHintIsConsumedOnce(t *testing.T) {
	sm, ctx := newTestSessionManager(t)

	assert.Empty(t, sm.PopSessionHint(ctx))

	sm.PutSessionHint(ctx, "sid-1")
	assert.Equal(t, "sid-1", sm.PopSessionHint(ctx))
	assert.Empty(t, sm.PopSessionHint(ctx))
}

func TestSessionManager_StaleSessionHintIsRejected(t *testing.T) {
	sm, ctx := newTestSessionManager(t)

	sm.Put(ctx, string(SessionKeyHint), &models.SessionHint{
		SessionID: "sid-1",
		CreatedAt: time.Now().Add(-sessionHintMaxAge - time.Second),
	})

	assert.Empty(t, sm.PopSessionHint(ctx))
}

func TestSessionManager_LoadAndSavePersistsUser(t *testing.T) {
	sm, _ := newTestSessionManager(t)

	var cookie *http.Cookie

	write := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.SetUser(r.Context(), testutil.TestUser("abc"))
	}))
	rr := httptest.NewRecorder()
	write.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, c := range rr.Result().Cookies() {
		if c.Name == sm.Cookie.Name {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	var got *models.User
	read := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		got, err = sm.GetUser(r.Context())
		require.NoError(t, err)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	read.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "abc", got.SessionID)
	assert.Equal(t, "refresh-token", got.RefreshToken)
}
