package handlers

import (
	"net/http"

	"session-guard/internal/middlewares"
	"session-guard/internal/models"
	"session-guard/internal/sessionguard"
)

// SignoutHandler signs the user out at the provider. Script callers get the
// provider URL back as JSON instead of a redirect. Cross-site GETs are
// refused.
func SignoutHandler(ctx *middlewares.AppContext) {
	// a GET can be triggered by any third-party link; SameSite=Lax still
	// sends the session cookie on it
	if ctx.Request.Method == http.MethodGet && ctx.Request.Header.Get("Sec-Fetch-Site") == "cross-site" {
		ctx.Logger.Warn("Rejected cross-site sign-out", "referer", ctx.Request.Referer())
		ctx.SetJSONError(http.StatusForbidden, "Cross-site sign-out is not allowed")
		return
	}

	var hook sessionguard.PreSignoutHook
	if ctx.Config.OIDC.RevokeOnSignout {
		hook = RevokeTokensHook
	}

	outcome, err := sessionguard.SignoutRedirect(ctx, hook)
	if err != nil {
		ctx.Logger.Error("Failed to sign out", "error", err)
		ctx.SetJSONError(http.StatusInternalServerError, "Failed to logout")
		return
	}

	if sessionguard.WantsJSON(ctx.Request) {
		ctx.SetRedirectRequired(http.StatusOK, outcome.Location)
		return
	}

	ctx.Redirect(outcome.Location, http.StatusFound)
}

// RevokeTokensHook revokes the user's tokens before the provider sign-out.
// Revocation failures are logged and do not stop the sign-out.
func RevokeTokensHook(ctx *middlewares.AppContext, user *models.User) error {
	if err := ctx.OIDCProvider.NewUserManager(ctx).RevokeTokens(user); err != nil {
		ctx.Logger.Warn("Failed to revoke tokens at sign-out", "sub", user.Sub, "error", err)
	}
	return nil
}

func GETSignoutCallbackHandler(ctx *middlewares.AppContext) {
	outcome, err := sessionguard.SignoutRedirectCallback(ctx)
	if err != nil {
		redirectToErrorPage(ctx, err, "Failed to handle sign-out callback")
		return
	}

	ctx.Redirect(outcome.Location, http.StatusFound)
}
