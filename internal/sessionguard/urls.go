package sessionguard

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	// SidHintParam carries the provider session id from the sign-in callback
	// to the first authenticated page load.
	SidHintParam = "sid_hint"
	// ReturnToParam names the page to come back to after sign-out.
	ReturnToParam = "returnTo"
)

// ConsumeSessionIDHint returns the sid_hint query value and removes it from
// the request, so later reads of the same URL (including the return-to URL)
// no longer see it.
func ConsumeSessionIDHint(r *http.Request) string {
	query := r.URL.Query()
	if !query.Has(SidHintParam) {
		return ""
	}

	hint := query.Get(SidHintParam)
	query.Del(SidHintParam)
	r.URL.RawQuery = query.Encode()

	if r.RequestURI != "" {
		r.RequestURI = r.URL.RequestURI()
	}

	return hint
}

// ReturnToURL returns the absolute URL of the current request, or "" when
// the request is for the application root with no query.
func ReturnToURL(r *http.Request, externalURL string) string {
	external, err := url.Parse(externalURL)
	if err != nil {
		return ""
	}

	if r.URL.RawQuery == "" && samePath(r.URL.Path, appRoot(external)) {
		return ""
	}

	current := url.URL{
		Scheme:   external.Scheme,
		Host:     external.Host,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	}

	return current.String()
}

// SafeReturnTo returns target if it is a relative path or an absolute URL on
// the external origin, and "" otherwise.
func SafeReturnTo(target, externalURL string) string {
	if target == "" {
		return ""
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return ""
	}

	if !parsed.IsAbs() {
		// "//host" and "/\host" are treated as absolute by browsers
		if parsed.Host != "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
			return ""
		}
		return target
	}

	external, err := url.Parse(externalURL)
	if err != nil {
		return ""
	}

	if !strings.EqualFold(parsed.Scheme, external.Scheme) || !strings.EqualFold(parsed.Host, external.Host) {
		return ""
	}

	return target
}

// rootURL is the absolute URL of the application root.
func rootURL(externalURL string) string {
	external, err := url.Parse(externalURL)
	if err != nil {
		return "/"
	}
	external.Path = appRoot(external)
	return external.String()
}

// appRoot is the base path the application is served under.
func appRoot(external *url.URL) string {
	if external.Path == "" {
		return "/"
	}
	return external.Path
}

func samePath(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}

// withSessionIDHint sets sid_hint on target, keeping everything else.
func withSessionIDHint(target, sid string) (string, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return "", err
	}

	if sid == "" {
		return parsed.String(), nil
	}

	query := parsed.Query()
	query.Set(SidHintParam, sid)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
