package middlewares

import (
	"context"
	"net/http"

	"session-guard/internal/models"
)

//go:generate mockgen -source=session_provider.go -destination=../mocks/session.go -package=mocks

type SessionProvider interface {
	SetUser(ctx context.Context, user *models.User)
	GetUser(ctx context.Context) (*models.User, error)
	RemoveUser(ctx context.Context)
	PutSigninState(ctx context.Context, state *models.SigninState)
	PopSigninState(ctx context.Context, id string) (state *models.SigninState, ok bool)
	PutSignoutState(ctx context.Context, state *models.SignoutState)
	PopSignoutState(ctx context.Context, id string) (state *models.SignoutState, ok bool)
	PutSessionHint(ctx context.Context, sid string)
	PopSessionHint(ctx context.Context) string
	RenewToken(ctx context.Context) error

	LoadAndSave(next http.Handler) http.Handler
}
