package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"

	"session-guard/internal/middlewares"
	"session-guard/internal/models"
	"session-guard/internal/sessionguard"
)

// SilentMessageType tags the message the silent callback page posts to its
// parent window.
const SilentMessageType = "session-guard:silent-signin"

var silentCallbackPage = template.Must(template.New("silent").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Signing in</title></head>
<body>
<script>
window.parent.postMessage({{.Message}}, {{.Origin}});
</script>
</body>
</html>
`))

type silentCallbackData struct {
	Message silentMessage
	Origin  string
}

// silentMessage is what the app listening on the parent window receives.
type silentMessage struct {
	Type  string `json:"type"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// GETSilentSigninHandler starts a prompt=none sign-in. It is meant to be
// loaded in a hidden iframe by the app.
func GETSilentSigninHandler(ctx *middlewares.AppContext) {
	mgr := ctx.OIDCProvider.NewUserManager(ctx)

	location, err := mgr.SigninSilentRedirect(models.SigninArgs{})
	if err != nil {
		ctx.Logger.Error("Failed to start silent sign-in", "error", err)
		writeSilentResult(ctx, http.StatusInternalServerError, "server_error")
		return
	}

	ctx.Redirect(location, http.StatusFound)
}

// GETSilentCallbackHandler finishes a silent sign-in and tells the parent
// window how it went.
func GETSilentCallbackHandler(ctx *middlewares.AppContext) {
	if err := sessionguard.SigninSilentCallback(ctx); err != nil {
		ctx.Logger.Debug("Silent sign-in failed", "error", err)

		code := ctx.Request.URL.Query().Get("error")
		if code == "" {
			code = "signin_failed"
		}
		writeSilentResult(ctx, http.StatusOK, code)
		return
	}

	writeSilentResult(ctx, http.StatusOK, "")
}

func writeSilentResult(ctx *middlewares.AppContext, status int, errorCode string) {
	data := silentCallbackData{
		Message: silentMessage{
			Type:  SilentMessageType,
			OK:    errorCode == "",
			Error: errorCode,
		},
		Origin: externalOrigin(ctx.Config.Server.ExternalURL),
	}

	var buf bytes.Buffer
	if err := silentCallbackPage.Execute(&buf, data); err != nil {
		ctx.Logger.Error("Failed to render silent callback page", "error", err)
		http.Error(ctx.Response, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx.WriteHTML(status, buf.Bytes())
}

func externalOrigin(externalURL string) string {
	parsed, err := url.Parse(externalURL)
	if err != nil {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
