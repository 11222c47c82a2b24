// Package guard decides whether a role-restricted view may render for the
// current session.
package guard

import (
	"github.com/mzaikin/caseport/internal/client/models"
	"github.com/mzaikin/caseport/internal/client/session"
)

// Decision is the outcome of a navigation check.
type Decision int

const (
	// Pending: the session is still loading; render a placeholder and
	// re-evaluate once the startup restore completes.
	Pending Decision = iota

	// Render: the view may be shown.
	Render

	// RedirectLogin: no usable session; send the user to the login view.
	RedirectLogin

	// RedirectUnauthorized: authenticated, but the user's role does not
	// grant access to this view.
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "PENDING"
	case Render:
		return "RENDER"
	case RedirectLogin:
		return "REDIRECT_LOGIN"
	case RedirectUnauthorized:
		return "REDIRECT_UNAUTHORIZED"
	default:
		return "UNKNOWN"
	}
}

// AnyRole requires authentication but no particular role.
const AnyRole = models.Role("")

// Decide inspects a session snapshot and yields exactly one decision.
//
// It is pure and side-effect free, and must be re-evaluated on every
// navigation to a guarded view: the session can change between navigations
// and decisions must never be cached.
//
// A token without a resolved user counts as unauthenticated; that is the
// conservative default for a restored session whose owner could not be
// re-fetched.
func Decide(snap session.Snapshot, required models.Role) Decision {
	if snap.Loading {
		return Pending
	}
	if snap.Token == "" || snap.User == nil {
		return RedirectLogin
	}
	if required != AnyRole && snap.User.Role != required {
		return RedirectUnauthorized
	}
	return Render
}
