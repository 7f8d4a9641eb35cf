package middlewares

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"session-guard/internal/config"

	"github.com/go-chi/chi/v5/middleware"
)

type AppContext struct {
	context.Context
	Config         *config.Config
	Logger         *slog.Logger
	SessionManager SessionProvider
	OIDCProvider   OIDCProvider

	Request  *http.Request
	Response http.ResponseWriter
}

type contextKey string

const appContextKey contextKey = "appContext"

func AppContextMiddleware(baseCtx *AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestCtx := &AppContext{
				Context:        r.Context(),
				Config:         baseCtx.Config,
				Logger:         requestLogger(baseCtx.Logger, r),
				SessionManager: baseCtx.SessionManager,
				OIDCProvider:   baseCtx.OIDCProvider,
				Response:       w,
			}

			r = r.WithContext(context.WithValue(r.Context(), appContextKey, requestCtx))
			requestCtx.Request = r

			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(logger *slog.Logger, r *http.Request) *slog.Logger {
	if requestID := middleware.GetReqID(r.Context()); requestID != "" {
		return logger.With("request_id", requestID)
	}
	return logger
}

type AppHandler func(*AppContext)

// Handler converts an AppHandler to an http.Handler
func (ctx *AppContext) Handler(h AppHandler) http.Handler {
	return ctx.HandlerFunc(h)
}

// HandlerFunc converts AppHandler to a http.HandlerFunc
func (ctx *AppContext) HandlerFunc(h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// routers may have re-wrapped the request since the context was built
		appCtx.Request = r
		appCtx.Response = w

		h(appCtx)
	}
}

func (ctx *AppContext) Redirect(url string, status int) {
	http.Redirect(ctx.Response, ctx.Request, url, status)
}

func NewAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, sessionManager SessionProvider, oidcProvider OIDCProvider) *AppContext {
	return &AppContext{
		Context:        ctx,
		Config:         cfg,
		Logger:         logger,
		SessionManager: sessionManager,
		OIDCProvider:   oidcProvider,
	}
}

func GetAppContext(r *http.Request) *AppContext {
	if ctx, ok := r.Context().Value(appContextKey).(*AppContext); ok {
		return ctx
	}

	return nil
}

func (ctx *AppContext) WriteJSON(status int, data interface{}) {
	ctx.Response.Header().Set("Content-Type", "application/json")
	ctx.Response.WriteHeader(status)
	if err := json.NewEncoder(ctx.Response).Encode(data); err != nil {
		ctx.Logger.Error("failed to marshal json", "error", err)
	}
}

func (ctx *AppContext) WriteHTML(status int, body []byte) {
	ctx.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	ctx.Response.Header().Set("Cache-Control", "no-store")
	ctx.Response.WriteHeader(status)
	if _, err := ctx.Response.Write(body); err != nil {
		ctx.Logger.Error("failed to write html", "error", err)
	}
}

func (ctx *AppContext) SetJSONError(status int, message string) {
	ctx.WriteJSON(status, map[string]string{
		"error": message,
	})
}

// SetRedirectRequired tells API callers where the browser has to go next.
func (ctx *AppContext) SetRedirectRequired(status int, redirectURL string) {
	ctx.WriteJSON(status, map[string]string{
		"status":       "redirect_required",
		"redirect_url": redirectURL,
	})
}
