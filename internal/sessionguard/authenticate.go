package sessionguard

import (
	"fmt"
	"time"

	"session-guard/internal/metrics"
	"session-guard/internal/middlewares"
	"session-guard/internal/models"
)

// Authenticate decides whether the current request belongs to a valid,
// provider-backed session. Silent renewal failures end in a sign-in redirect
// and session status failures in a sign-out redirect. Every other failure is
// returned.
//
// A sid_hint in the URL is only trusted while the session still holds the
// one-time marker recorded when the server verified that sid. A replayed hint
// falls through to a provider session status query.
func Authenticate(ctx *middlewares.AppContext) (Outcome, error) {
	mgr := ctx.OIDCProvider.NewUserManager(ctx)

	user, err := mgr.GetUser()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load user: %w", err)
	}

	if user == nil || user.Expired(time.Now()) {
		cached := user
		user, err = mgr.SigninSilent()
		if err != nil || user == nil {
			ctx.Logger.Debug("silent renew failed, signing in", "error", err)
			if cached != nil {
				if err := mgr.RemoveUser(); err != nil {
					return Outcome{}, fmt.Errorf("failed to remove expired user: %w", err)
				}
			}
			return signinRedirect(ctx, mgr, ReturnToURL(ctx.Request, ctx.Config.Server.ExternalURL), ReasonSigninRequired)
		}
	}

	hinted := ctx.Request.URL.Query().Has(SidHintParam)
	hint := ConsumeSessionIDHint(ctx.Request)
	verified := ctx.SessionManager.PopSessionHint(ctx)

	sid := verified
	if hinted {
		sid = ""
		if verified != "" {
			sid = hint
		} else {
			ctx.Logger.Debug("ignoring sid_hint without a verified session marker", "sub", user.Sub)
		}
	}

	if sid == "" {
		status, err := mgr.QuerySessionStatus()
		if err != nil || status == nil || status.SessionID == "" {
			ctx.Logger.Info("provider session status unavailable, signing out", "sub", user.Sub, "error", err)
			return signoutRedirect(ctx, mgr, ReasonSessionStatusUnavailable)
		}
		sid = status.SessionID
	}

	if sid != user.SessionID {
		ctx.Logger.Info("provider session does not match cached user, signing out", "sub", user.Sub)
		return signoutRedirect(ctx, mgr, ReasonSessionMismatch)
	}

	metrics.AuthDecisions.WithLabelValues(ReasonAuthenticated).Inc()
	return proceed(ReasonAuthenticated, sid, hinted), nil
}

func signinRedirect(ctx *middlewares.AppContext, mgr middlewares.UserManager, returnTo, reason string) (Outcome, error) {
	location, err := mgr.SigninRedirect(models.SigninArgs{ReturnTo: returnTo})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to start sign-in: %w", err)
	}

	metrics.AuthDecisions.WithLabelValues(reason).Inc()
	return redirect(location, reason), nil
}

func signoutRedirect(ctx *middlewares.AppContext, mgr middlewares.UserManager, reason string) (Outcome, error) {
	returnTo := ReturnToURL(ctx.Request, ctx.Config.Server.ExternalURL)

	location, err := mgr.SignoutRedirect(models.SignoutArgs{ReturnTo: returnTo})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to start sign-out: %w", err)
	}

	metrics.AuthDecisions.WithLabelValues(reason).Inc()
	return redirect(location, reason), nil
}
