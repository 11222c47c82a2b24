package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/mzaikin/caseport/internal/client/api"
	"github.com/mzaikin/caseport/internal/client/credstore"
	"github.com/mzaikin/caseport/internal/client/models"
	"github.com/mzaikin/caseport/internal/logging"
)

// Controller orchestrates the credential store, the remote API and the
// session state. It is the only component allowed to mutate State.
//
// Errors from the API are never swallowed: every failure is re-signalled to
// the caller, which decides what to present and whether to retry. The
// controller itself performs no retries.
type Controller struct {
	state *State
	store credstore.Store
	api   api.Client
	log   logging.Logger

	// resolveUserOnRestore controls whether Initialize re-fetches the user
	// record for a restored token via /auth/me. Without it a restored
	// session has a token but no user, and the guard keeps redirecting an
	// otherwise-valid session to login.
	resolveUserOnRestore bool

	// logoutOnUnauthorized controls whether HandleUnauthorized tears the
	// session down when an authenticated call is rejected by the server.
	logoutOnUnauthorized bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithUserResolution toggles the restore-time /auth/me lookup.
func WithUserResolution(enabled bool) Option {
	return func(c *Controller) { c.resolveUserOnRestore = enabled }
}

// WithLogoutOnUnauthorized toggles session teardown on stale-session
// rejections reported through HandleUnauthorized.
func WithLogoutOnUnauthorized(enabled bool) Option {
	return func(c *Controller) { c.logoutOnUnauthorized = enabled }
}

// NewController builds a controller around a fresh State. Both policies
// default to enabled.
func NewController(store credstore.Store, client api.Client, log logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		state:                NewState(),
		store:                store,
		api:                  client,
		log:                  log,
		resolveUserOnRestore: true,
		logoutOnUnauthorized: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State exposes the session state for observers.
func (c *Controller) State() *State {
	return c.state
}

// Initialize restores the session from the credential store. It performs the
// single startup read, installs a stored token if present, optionally
// resolves its owner, and finishes the loading phase exactly once.
//
// A restored token rejected by /auth/me is torn down on the spot; a
// transport failure keeps the token and leaves the user unresolved, in which
// case the guard falls back to its conservative login redirect.
func (c *Controller) Initialize(ctx context.Context) error {
	defer c.state.finishLoading()

	token, ok, err := c.store.Read(ctx)
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	if !ok {
		return nil
	}

	c.api.SetToken(token)
	c.state.setToken(token)

	if !c.resolveUserOnRestore {
		return nil
	}

	user, err := c.api.CurrentUser(ctx)
	switch {
	case err == nil:
		c.state.setUser(user)
		c.log.Info(ctx, "session restored", "email", user.Email, "role", user.Role)
	case errors.Is(err, api.ErrUnauthorized):
		c.log.Warn(ctx, "stored token rejected by server, clearing session")
		if clearErr := c.teardown(ctx); clearErr != nil {
			return clearErr
		}
	default:
		c.log.Warn(ctx, "could not resolve restored session", "error", err)
	}
	return nil
}

// Login authenticates and, on success, persists the token and installs token
// and user in a single state transition. On failure the state is left
// exactly as it was and the error is returned to the caller.
func (c *Controller) Login(ctx context.Context, email, password string) (*models.User, error) {
	token, user, err := c.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := c.store.Save(ctx, token); err != nil {
		// The session is valid for this process even if persistence failed;
		// the next restart simply starts logged out.
		c.log.Error(ctx, "failed to persist session token", "error", err)
	}

	c.api.SetToken(token)
	c.state.setSession(token, user)
	c.log.Info(ctx, "logged in", "email", user.Email, "role", user.Role)
	return user, nil
}

// Register creates a new account. Registration issues no token; the created
// user is recorded in state and must log in to obtain a session.
func (c *Controller) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	user, err := c.api.Register(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}
	c.state.setUser(user)
	c.log.Info(ctx, "account registered", "email", user.Email, "role", user.Role)
	return user, nil
}

// Logout clears the credential store and resets the state. Safe to call when
// already logged out.
func (c *Controller) Logout(ctx context.Context) error {
	return c.teardown(ctx)
}

// RefreshUser re-resolves the current user for the active token and updates
// state. A stale-session rejection is routed through HandleUnauthorized.
func (c *Controller) RefreshUser(ctx context.Context) (*models.User, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			if _, hErr := c.HandleUnauthorized(ctx); hErr != nil {
				return nil, hErr
			}
		}
		return nil, err
	}
	c.state.setUser(user)
	return user, nil
}

// HandleUnauthorized is the explicit stale-session policy. Views report a
// rejected authenticated call here; when the policy is enabled the session
// is torn down and true is returned. With the policy disabled this is a
// no-op and the view's own error handling decides what to do.
func (c *Controller) HandleUnauthorized(ctx context.Context) (bool, error) {
	if !c.logoutOnUnauthorized {
		return false, nil
	}
	c.log.Warn(ctx, "authenticated request rejected, logging out")
	if err := c.teardown(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (c *Controller) teardown(ctx context.Context) error {
	err := c.store.Clear(ctx)
	c.api.SetToken("")
	c.state.clearSession()
	if err != nil {
		return fmt.Errorf("clearing credential store: %w", err)
	}
	return nil
}
