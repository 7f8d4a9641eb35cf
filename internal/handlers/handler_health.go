package handlers

import (
	"net/http"

	"session-guard/internal/middlewares"
	"session-guard/internal/version"
)

func HandlerHealth(ctx *middlewares.AppContext) {
	ctx.WriteJSON(http.StatusOK, map[string]string{
		"status":  "OK",
		"version": version.GetVersion(),
		"commit":  version.GetGitCommit(),
		"built":   version.GetBuildTime(),
	})
}
