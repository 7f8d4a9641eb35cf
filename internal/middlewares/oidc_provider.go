package middlewares

//go:generate mockgen -source=oidc_provider.go -destination=../mocks/oidc.go -package=mocks

// OIDCProvider is the long-lived handle on the identity provider. It hands
// out a fresh UserManager for every call so no mutable state is shared
// between requests.
type OIDCProvider interface {
	NewUserManager(ctx *AppContext) UserManager
}
