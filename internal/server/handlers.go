package server

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"session-guard/internal/auth"
	"session-guard/internal/config"
	"session-guard/internal/handlers"
	"session-guard/internal/middlewares"
	"session-guard/internal/sessionguard"
)

func setupRouter(ctx *middlewares.AppContext, sessions *auth.SessionManager) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middlewares.ClientIPMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.MetricsMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(sessions.LoadAndSave)

	r.Use(middlewares.AppContextMiddleware(ctx))

	staticDir := ctx.Config.Server.StaticDir
	index := filepath.Join(staticDir, "index.html")
	serveIndex := func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	}

	// assets and the error page are reachable without a session
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(staticDir, "assets")))))
	r.Handle("/favicon.ico", http.FileServer(http.Dir(staticDir)))
	r.Get("/error", serveIndex)

	r.Route("/auth", func(r chi.Router) {
		r.Get(stripAuthPrefix(config.PathSigninCallback), ctx.HandlerFunc(handlers.GETSigninCallbackHandler))
		r.Get("/silent", ctx.HandlerFunc(handlers.GETSilentSigninHandler))
		r.Get(stripAuthPrefix(config.PathSilentCallback), ctx.HandlerFunc(handlers.GETSilentCallbackHandler))
		r.Get(stripAuthPrefix(config.PathSignoutCallback), ctx.HandlerFunc(handlers.GETSignoutCallbackHandler))
		r.Get("/signout", ctx.HandlerFunc(handlers.SignoutHandler))
		r.Post("/signout", ctx.HandlerFunc(handlers.SignoutHandler))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   ctx.Config.CORS.AllowedOrigins,
			AllowedMethods:   ctx.Config.CORS.AllowedMethods,
			AllowedHeaders:   ctx.Config.CORS.AllowedHeaders,
			ExposedHeaders:   ctx.Config.CORS.ExposedHeaders,
			AllowCredentials: ctx.Config.CORS.AllowCredentials,
			MaxAge:           ctx.Config.CORS.MaxAgeSeconds,
		}))

		r.Route("/auth", func(r chi.Router) {
			r.Get("/status", ctx.HandlerFunc(handlers.GETAuthStatusHandler))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Get("/health", ctx.HandlerFunc(handlers.HandlerHealth))
		})

		r.NotFound(ctx.HandlerFunc(func(ctx *middlewares.AppContext) {
			ctx.SetJSONError(http.StatusNotFound, "Not Found")
		}))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Use(sessionguard.RequireSession)
		r.Get("/*", serveIndex)
	})

	return r
}

func stripAuthPrefix(path string) string {
	return path[len("/auth"):]
}

func setupDebugRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/debug", middleware.Profiler())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
