package sessionguard

import (
	"net/http"
	"strings"

	"session-guard/internal/metrics"
	"session-guard/internal/middlewares"
)

// RequireSession runs Authenticate before next. Halted outcomes are written
// with WriteOutcome and next is not called.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middlewares.GetAppContext(r)
		if ctx == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		ctx.Request = r
		ctx.Response = w

		outcome, err := Authenticate(ctx)
		if err != nil {
			ctx.Logger.Error("failed to authenticate request", "error", err)
			ctx.SetJSONError(http.StatusInternalServerError, "Internal Server Error")
			return
		}

		if outcome.Halted() {
			WriteOutcome(ctx, outcome)
			return
		}

		// a navigation that carried sid_hint is sent to the stripped URL so
		// the hint leaves the address bar; the verified sid vouches for that
		// one follow-up request
		if outcome.HintConsumed && isNavigation(r) {
			ctx.SessionManager.PutSessionHint(ctx, outcome.SessionID)
			metrics.AuthDecisions.WithLabelValues(ReasonSessionHintConsumed).Inc()
			http.Redirect(w, r, r.URL.RequestURI(), http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// WriteOutcome sends a halted outcome to the client: a 302 for browser
// navigations and a 401 redirect_required body for API callers, who cannot
// follow a cross-origin redirect to the provider.
func WriteOutcome(ctx *middlewares.AppContext, outcome Outcome) {
	if !outcome.Halted() {
		return
	}

	if WantsJSON(ctx.Request) {
		ctx.SetRedirectRequired(http.StatusUnauthorized, outcome.Location)
		return
	}

	ctx.Redirect(outcome.Location, http.StatusFound)
}

// WantsJSON reports whether the request came from script rather than a
// top-level navigation.
func WantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}

	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" && mode != "navigate" {
		return true
	}

	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func isNavigation(r *http.Request) bool {
	return (r.Method == http.MethodGet || r.Method == http.MethodHead) && !WantsJSON(r)
}
