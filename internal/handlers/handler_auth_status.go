package handlers

import (
	"net/http"

	"session-guard/internal/middlewares"
	"session-guard/internal/models"
	"session-guard/internal/sessionguard"
)

type AuthStatusResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}

// GETAuthStatusHandler runs the authentication check for the page named by
// the returnTo parameter (the app root by default), so a redirect lands the
// user back on that page.
func GETAuthStatusHandler(ctx *middlewares.AppContext) {
	pageCtx := *ctx
	pageCtx.Request = pageRequest(ctx)

	outcome, err := sessionguard.Authenticate(&pageCtx)
	if err != nil {
		ctx.Logger.Error("Failed to check authentication", "error", err)
		ctx.SetJSONError(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if outcome.Halted() {
		ctx.SetRedirectRequired(http.StatusUnauthorized, outcome.Location)
		return
	}

	user, err := ctx.OIDCProvider.NewUserManager(ctx).GetUser()
	if err != nil || user == nil {
		ctx.Logger.Error("Failed to load user after authentication", "error", err)
		ctx.WriteJSON(http.StatusUnauthorized, AuthStatusResponse{})
		return
	}

	ctx.WriteJSON(http.StatusOK, AuthStatusResponse{
		Authenticated: true,
		User:          user,
	})
}

// pageRequest is a copy of the current request pointing at the page the
// status is asked for.
func pageRequest(ctx *middlewares.AppContext) *http.Request {
	externalURL := ctx.Config.Server.ExternalURL

	page := sessionguard.SafeReturnTo(ctx.Request.URL.Query().Get(sessionguard.ReturnToParam), externalURL)
	if page == "" {
		page = externalURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
	if err != nil {
		return ctx.Request
	}
	req.Header = ctx.Request.Header.Clone()
	req.RequestURI = req.URL.RequestURI()

	return req
}
