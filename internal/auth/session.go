package auth

import (
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"session-guard/internal/config"
	"session-guard/internal/models"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisprometheus/v9"
	"github.com/redis/go-redis/v9"
)

func init() {
	gob.Register(&models.User{})
	gob.Register(&models.SigninState{})
	gob.Register(&models.SignoutState{})
	gob.Register(&models.SessionHint{})
}

type SessionManager struct {
	*scs.SessionManager

	redis *redis.Client
}

func NewSessionManager(logger *slog.Logger, cfg *config.Config) (*SessionManager, error) {
	sessionManager := scs.New()
	manager := &SessionManager{SessionManager: sessionManager}

	switch cfg.Sessions.Store {
	case "memory":
		sessionManager.Store = memstore.New()
	case "redis":
		client, err := newRedisClient(logger, cfg.Redis)
		if err != nil {
			return nil, err
		}

		if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
			collector := redisprometheus.NewCollector("session_guard", "sessions", client)
			if err := prometheus.Register(collector); err != nil {
				logger.Warn("failed to register redis metrics collector", "error", err)
			}
		}

		sessionManager.Store = goredisstore.New(client)
		manager.redis = client
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Sessions.Store)
	}

	sessionManager.Lifetime = cfg.Sessions.Lifetime
	sessionManager.IdleTimeout = cfg.Sessions.IdleTimeout

	sessionManager.Cookie.Name = cfg.Sessions.Name
	sessionManager.Cookie.HttpOnly = true
	// Lax so the session cookie survives the top-level redirect back from
	// the provider.
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Sessions.SecureCookie()
	sessionManager.Cookie.Path = "/"

	return manager, nil
}

func newRedisClient(logger *slog.Logger, cfg *config.RedisConfig) (*redis.Client, error) {
	var client *redis.Client

	if cfg.Sentinel != nil {
		logger.Info("connecting to redis via sentinel",
			"master", cfg.Sentinel.MasterName,
			"sentinels", cfg.Sentinel.SentinelAddresses)

		client = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.Sentinel.MasterName,
			SentinelAddrs:    cfg.Sentinel.SentinelAddresses,
			SentinelUsername: cfg.Sentinel.SentinelUsername,
			SentinelPassword: cfg.Sentinel.SentinelPassword,
			Username:         cfg.Username,
			Password:         cfg.Password,
			DB:               cfg.SessionIndex,
			MinIdleConns:     2,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         cfg.Address,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.SessionIndex,
			MinIdleConns: 2,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}

// Close releases the redis connection pool, if any.
func (s *SessionManager) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}

func (s *SessionManager) LoadAndSave(next http.Handler) http.Handler {
	return s.SessionManager.LoadAndSave(next)
}

func (s *SessionManager) SetUser(ctx context.Context, user *models.User) {
	s.Put(ctx, string(SessionKeyUser), user)
}

// GetUser returns nil when nobody is signed in, and an error when the stored
// value is not a user record.
func (s *SessionManager) GetUser(ctx context.Context) (*models.User, error) {
	data := s.Get(ctx, string(SessionKeyUser))
	if data == nil {
		return nil, nil
	}

	user, ok := data.(*models.User)
	if !ok {
		return nil, fmt.Errorf("unexpected session value for %s: %T", SessionKeyUser, data)
	}

	return user, nil
}

func (s *SessionManager) RemoveUser(ctx context.Context) {
	s.Remove(ctx, string(SessionKeyUser))
}

func (s *SessionManager) PutSigninState(ctx context.Context, state *models.SigninState) {
	s.Put(ctx, signinStateKey(state.ID), state)
}

// PopSigninState returns the state stored under id and removes it, so a
// state can only be redeemed once. Stale states are dropped.
func (s *SessionManager) PopSigninState(ctx context.Context, id string) (*models.SigninState, bool) {
	if id == "" {
		return nil, false
	}

	state, ok := s.Pop(ctx, signinStateKey(id)).(*models.SigninState)
	if !ok || time.Since(state.CreatedAt) > stateMaxAge {
		return nil, false
	}

	return state, true
}

func (s *SessionManager) PutSignoutState(ctx context.Context, state *models.SignoutState) {
	s.Put(ctx, signoutStateKey(state.ID), state)
}

func (s *SessionManager) PopSignoutState(ctx context.Context, id string) (*models.SignoutState, bool) {
	if id == "" {
		return nil, false
	}

	state, ok := s.Pop(ctx, signoutStateKey(id)).(*models.SignoutState)
	if !ok || time.Since(state.CreatedAt) > stateMaxAge {
		return nil, false
	}

	return state, true
}

// PutSessionHint records a provider session id the server has just verified.
func (s *SessionManager) PutSessionHint(ctx context.Context, sid string) {
	s.Put(ctx, string(SessionKeyHint), &models.SessionHint{SessionID: sid, CreatedAt: time.Now()})
}

// PopSessionHint returns the recorded session id and removes it. It returns
// "" when there is none or it is too old.
func (s *SessionManager) PopSessionHint(ctx context.Context) string {
	hint, ok := s.Pop(ctx, string(SessionKeyHint)).(*models.SessionHint)
	if !ok || time.Since(hint.CreatedAt) > sessionHintMaxAge {
		return ""
	}
	return hint.SessionID
}
