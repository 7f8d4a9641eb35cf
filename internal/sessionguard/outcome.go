package sessionguard

import (
	"session-guard/internal/middlewares"
	"session-guard/internal/models"
)

type Action int

const (
	// ActionContinue means the caller may go on serving the request.
	ActionContinue Action = iota
	// ActionRedirect means the browser has to be sent to Location and the
	// caller must not do anything else with the request.
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Reasons attached to outcomes. They are used as metric labels, so the set
// is closed.
const (
	ReasonAuthenticated            = "authenticated"
	ReasonSigninRequired           = "signin_required"
	ReasonSessionStatusUnavailable = "session_status_unavailable"
	ReasonSessionMismatch          = "session_mismatch"
	ReasonSigninComplete           = "signin_complete"
	ReasonSignoutComplete          = "signout_complete"
	ReasonSignout                  = "signout"
	ReasonNotSignedIn              = "not_signed_in"
	ReasonSessionHintConsumed      = "session_hint_consumed"
)

// Outcome is the result of every entry point in this package.
type Outcome struct {
	Action   Action
	Location string
	Reason   string

	// SessionID is the verified provider session id of a continue outcome.
	SessionID string
	// HintConsumed is set when sid_hint was read from the request URL. The
	// URL the browser shows still carries it.
	HintConsumed bool
}

// Halted reports whether the caller has to stop after sending the browser
// to Location.
func (o Outcome) Halted() bool {
	return o.Action == ActionRedirect
}

func proceed(reason, sid string, hintConsumed bool) Outcome {
	return Outcome{Action: ActionContinue, Reason: reason, SessionID: sid, HintConsumed: hintConsumed}
}

func redirect(location, reason string) Outcome {
	return Outcome{Action: ActionRedirect, Location: location, Reason: reason}
}

// PreSignoutHook runs after the user is known to be signed in and before the
// provider sign-out redirect is built. A non-nil error aborts the sign-out.
type PreSignoutHook func(ctx *middlewares.AppContext, user *models.User) error
