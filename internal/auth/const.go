package auth

import "time"

type SessionKey string

const (
	SessionKeyUser SessionKey = "oidc_user"
	SessionKeyHint SessionKey = "oidc_sid_hint"

	// sign-in and sign-out states are keyed by their state id so several
	// tabs can be mid-flow at once
	sessionKeySigninStatePrefix  = "oidc_signin_state."
	sessionKeySignoutStatePrefix = "oidc_signout_state."
)

func signinStateKey(id string) string {
	return sessionKeySigninStatePrefix + id
}

func signoutStateKey(id string) string {
	return sessionKeySignoutStatePrefix + id
}

// stateMaxAge bounds how long a pending redirect may take to come back.
const stateMaxAge = 15 * time.Minute

// sessionHintMaxAge bounds how long a verified session id may stand in for a
// provider session status query.
const sessionHintMaxAge = 2 * time.Minute

const promptNone = "none"
