package models

import "time"

type SigninArgs struct {
	ReturnTo string
}

// SigninState is carried across a sign-in redirect and consumed once by the
// matching callback.
type SigninState struct {
	ID           string
	Nonce        string
	CodeVerifier string
	ReturnTo     string
	Silent       bool
	CreatedAt    time.Time
}

type SignoutArgs struct {
	ReturnTo string
}

// SignoutState is carried across a sign-out redirect and consumed once by the
// sign-out callback.
type SignoutState struct {
	ID        string
	ReturnTo  string
	CreatedAt time.Time
}

// SessionHint is a provider session id the server verified itself, either at
// the sign-in callback or while stripping sid_hint from a page URL. It vouches
// for exactly one later request.
type SessionHint struct {
	SessionID string
	CreatedAt time.Time
}
