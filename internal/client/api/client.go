// Package api is the CasePort client's gateway to the remote platform API:
// registration, login, current-user lookup, invite verification and the
// role-gated home resources. The wire contract (HTTP/JSON) is owned by the
// server; this package only depends on the fields the client consumes.
package api

import (
	"context"

	"github.com/mzaikin/caseport/internal/client/models"
)

// Client is the remote API surface consumed by the session and registration
// flows. Every call is a single request/response exchange that may fail with
// ErrUnavailable (transport), ErrUnauthorized (rejected credentials/token),
// or an *APIError carrying the server-supplied reason. No call retries.
type Client interface {
	// Register creates a new account. No session token is issued; the new
	// account must subsequently log in.
	Register(ctx context.Context, email, password, fullName string) (*models.User, error)

	// Login authenticates and returns the issued bearer token together with
	// the authenticated user. The token is also remembered by the client for
	// subsequent authenticated calls.
	Login(ctx context.Context, email, password string) (string, *models.User, error)

	// CurrentUser resolves the owner of the currently-set bearer token.
	CurrentUser(ctx context.Context) (*models.User, error)

	// VerifyInvite resolves an invite token to its pre-provisioned email and
	// role. Consumed, expired and unknown tokens are collapsed into
	// ErrInviteInvalid.
	VerifyInvite(ctx context.Context, inviteToken string) (*models.Invite, error)

	// SendInvite issues an invitation for the given email and role.
	// Fee-earner workflow; the server is the authority on who may invite.
	SendInvite(ctx context.Context, email string, role models.Role) error

	// ClientHome fetches the client home resource (requires RoleClient).
	ClientHome(ctx context.Context) (*models.User, error)

	// FeeEarnerHome fetches the fee-earner home resource (requires
	// RoleFeeEarner).
	FeeEarnerHome(ctx context.Context) (*models.User, error)

	// Ping checks server liveness.
	Ping(ctx context.Context) error

	// SetToken replaces the bearer token attached to authenticated requests.
	// An empty token clears it.
	SetToken(token string)

	Close() error
}
