package sessionguard

import (
	"fmt"

	"session-guard/internal/middlewares"
	"session-guard/internal/models"
)

// SignoutRedirect signs the current user out at the provider. Without a
// signed in user it starts a sign-in instead. The page to come back to is
// read from the returnTo query parameter.
func SignoutRedirect(ctx *middlewares.AppContext, hook PreSignoutHook) (Outcome, error) {
	mgr := ctx.OIDCProvider.NewUserManager(ctx)

	returnTo := SafeReturnTo(ctx.Request.URL.Query().Get(ReturnToParam), ctx.Config.Server.ExternalURL)

	user, err := mgr.GetUser()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load user: %w", err)
	}

	if user == nil {
		ctx.Logger.Debug("sign-out without a signed in user, signing in")
		return signinRedirect(ctx, mgr, returnTo, ReasonNotSignedIn)
	}

	if hook != nil {
		if err := hook(ctx, user); err != nil {
			return Outcome{}, fmt.Errorf("pre-signout hook failed: %w", err)
		}
	}

	location, err := mgr.SignoutRedirect(models.SignoutArgs{ReturnTo: returnTo})
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to start sign-out: %w", err)
	}

	ctx.Logger.Info("user signed out", "sub", user.Sub)
	return redirect(location, ReasonSignout), nil
}
