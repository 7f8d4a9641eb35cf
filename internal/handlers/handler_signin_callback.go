package handlers

import (
	"net/http"

	"session-guard/internal/middlewares"
	"session-guard/internal/sessionguard"
	"session-guard/internal/utils"
)

func GETSigninCallbackHandler(ctx *middlewares.AppContext) {
	outcome, err := sessionguard.SigninRedirectCallback(ctx, ctx.Config.OIDC.DefaultReturnTo)
	if err != nil {
		redirectToErrorPage(ctx, err, "Failed to handle OIDC callback")
		return
	}

	attrs := append([]any{"reason", outcome.Reason}, utils.UserAgentAttrs(ctx.Request.UserAgent())...)
	ctx.Logger.Info("User successfully authenticated", attrs...)

	ctx.Redirect(outcome.Location, http.StatusFound)
}
