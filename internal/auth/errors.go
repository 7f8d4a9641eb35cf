package auth

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrLoginRequired is returned by silent operations when the provider
	// needs the user to interact.
	ErrLoginRequired = errors.New("login required")
	// ErrNoRefreshToken means the cached user cannot be renewed in the
	// background.
	ErrNoRefreshToken = errors.New("no refresh token available")
	ErrStateNotFound  = errors.New("no matching state found in session")
	// ErrSessionStatusUnavailable is returned when the provider did not
	// report a session id.
	ErrSessionStatusUnavailable = errors.New("provider session status unavailable")
	ErrNoUser                   = errors.New("no signed in user")
)

// OIDCError is a callback failure that has an error page the browser can be
// sent to.
type OIDCError struct {
	RedirectURL string
	Message     string
	Err         error
}

func (e *OIDCError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *OIDCError) Unwrap() error {
	return e.Err
}

func newOIDCError(code, description, message string, err error) *OIDCError {
	return &OIDCError{
		RedirectURL: errorPageURL(code, description),
		Message:     message,
		Err:         err,
	}
}

func errorPageURL(code, description string) string {
	values := url.Values{}
	values.Set("error", code)
	if description != "" {
		values.Set("error_description", description)
	}
	return "/error?" + values.Encode()
}
