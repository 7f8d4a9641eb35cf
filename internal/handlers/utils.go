package handlers

import (
	"errors"
	"net/http"

	"session-guard/internal/auth"
	"session-guard/internal/middlewares"
)

// genericErrorURL is used for callback failures that carry no error page of
// their own.
const genericErrorURL = "/error?error=server_error&error_description=authentication+failed"

// redirectToErrorPage sends the browser to the error page matching err.
func redirectToErrorPage(ctx *middlewares.AppContext, err error, message string) {
	var oidcErr *auth.OIDCError
	if errors.As(err, &oidcErr) {
		ctx.Logger.Warn(message, "error", err)
		ctx.Redirect(oidcErr.RedirectURL, http.StatusFound)
		return
	}

	ctx.Logger.Error(message, "error", err)
	ctx.Redirect(genericErrorURL, http.StatusFound)
}
