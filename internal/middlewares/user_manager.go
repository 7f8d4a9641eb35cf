package middlewares

import (
	"session-guard/internal/models"
)

//go:generate mockgen -source=user_manager.go -destination=../mocks/user_manager.go -package=mocks

// UserManager drives the OIDC client flows for a single request. It is
// bound to the request's session and must not outlive the call that created
// it.
type UserManager interface {
	// GetUser returns the cached user, or nil when nobody is signed in.
	GetUser() (*models.User, error)
	RemoveUser() error

	// SigninSilent renews the cached user without user interaction.
	SigninSilent() (*models.User, error)
	// QuerySessionStatus asks the provider for the current session.
	QuerySessionStatus() (*models.SessionStatus, error)

	// SigninRedirect returns the provider URL the browser has to visit to
	// sign in.
	SigninRedirect(args models.SigninArgs) (string, error)
	// SigninSilentRedirect is SigninRedirect with prompt=none, meant for a
	// hidden iframe.
	SigninSilentRedirect(args models.SigninArgs) (string, error)
	SigninRedirectCallback() (*models.User, *models.SigninState, error)
	SigninSilentCallback() (*models.User, error)

	// SignoutRedirect removes the cached user and returns the provider URL
	// that ends the provider session.
	SignoutRedirect(args models.SignoutArgs) (string, error)
	SignoutRedirectCallback() (*models.SignoutState, error)

	RevokeTokens(user *models.User) error
}
