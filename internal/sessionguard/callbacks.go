package sessionguard

import (
	"fmt"

	"session-guard/internal/metrics"
	"session-guard/internal/middlewares"
	"session-guard/internal/models"
)

// SigninRedirectCallback finishes a sign-in and sends the browser back to
// the page it came from, tagged with the provider session id. The target is
// the return-to carried in the sign-in state, then defaultReturnTo, then the
// application root.
func SigninRedirectCallback(ctx *middlewares.AppContext, defaultReturnTo string) (Outcome, error) {
	mgr := ctx.OIDCProvider.NewUserManager(ctx)

	user, state, err := mgr.SigninRedirectCallback()
	if err != nil {
		metrics.Callbacks.WithLabelValues(metrics.CallbackKindSignin, metrics.ResultFailure).Inc()
		return Outcome{}, err
	}

	externalURL := ctx.Config.Server.ExternalURL

	target := ""
	if state != nil {
		target = SafeReturnTo(state.ReturnTo, externalURL)
	}
	if target == "" {
		target = SafeReturnTo(defaultReturnTo, externalURL)
	}
	if target == "" {
		target = rootURL(externalURL)
	}

	location, err := withSessionIDHint(target, user.SessionID)
	if err != nil {
		metrics.Callbacks.WithLabelValues(metrics.CallbackKindSignin, metrics.ResultFailure).Inc()
		return Outcome{}, fmt.Errorf("invalid return-to %q: %w", target, err)
	}

	if user.SessionID != "" {
		ctx.SessionManager.PutSessionHint(ctx, user.SessionID)
	}

	metrics.Callbacks.WithLabelValues(metrics.CallbackKindSignin, metrics.ResultSuccess).Inc()
	return redirect(location, ReasonSigninComplete), nil
}

// SigninSilentCallback finishes a prompt=none sign-in started in a hidden
// iframe. Reporting the result to the parent window is up to the caller.
func SigninSilentCallback(ctx *middlewares.AppContext) error {
	mgr := ctx.OIDCProvider.NewUserManager(ctx)

	if _, err := mgr.SigninSilentCallback(); err != nil {
		metrics.Callbacks.WithLabelValues(metrics.CallbackKindSilent, metrics.ResultFailure).Inc()
		return err
	}

	metrics.Callbacks.WithLabelValues(metrics.CallbackKindSilent, metrics.ResultSuccess).Inc()
	return nil
}

// SignoutRedirectCallback finishes a sign-out and starts a new sign-in that
// returns to wherever the sign-out was started from.
func SignoutRedirectCallback(ctx *middlewares.AppContext) (Outcome, error) {
	mgr := ctx.OIDCProvider.NewUserManager(ctx)

	state, err := mgr.SignoutRedirectCallback()
	if err != nil {
		metrics.Callbacks.WithLabelValues(metrics.CallbackKindSignout, metrics.ResultFailure).Inc()
		return Outcome{}, err
	}

	returnTo := ""
	if state != nil {
		returnTo = state.ReturnTo
	}

	location, err := mgr.SigninRedirect(models.SigninArgs{ReturnTo: returnTo})
	if err != nil {
		metrics.Callbacks.WithLabelValues(metrics.CallbackKindSignout, metrics.ResultFailure).Inc()
		return Outcome{}, fmt.Errorf("failed to start sign-in: %w", err)
	}

	metrics.Callbacks.WithLabelValues(metrics.CallbackKindSignout, metrics.ResultSuccess).Inc()
	return redirect(location, ReasonSignoutComplete), nil
}
