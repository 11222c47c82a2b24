package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mzaikin/caseport/internal/client/api"
	"github.com/mzaikin/caseport/internal/client/guard"
	"github.com/mzaikin/caseport/internal/client/models"
)

// Home navigates to a role-restricted home view. The route guard is
// consulted on every navigation; redirects are rendered as messages.
// With no view argument the user's own home is chosen.
func (a *App) Home(ctx context.Context, view string) error {
	snap := a.controller.State().Snapshot()

	var required models.Role
	switch view {
	case "client":
		required = models.RoleClient
	case "fee-earner":
		required = models.RoleFeeEarner
	case "":
		if snap.User == nil {
			printlnFn("Please log in first.")
			return nil
		}
		required = snap.User.Role
	default:
		printlnFn("Unknown view:", view)
		return nil
	}

	switch guard.Decide(snap, required) {
	case guard.Pending:
		printlnFn("Loading...")
		return nil
	case guard.RedirectLogin:
		printlnFn("Please log in first.")
		return nil
	case guard.RedirectUnauthorized:
		printlnFn("You do not have permission to view this page.")
		return nil
	}

	reqCtx, cancel := a.requestContext(ctx)
	defer cancel()

	var (
		user *models.User
		err  error
	)
	if required == models.RoleFeeEarner {
		user, err = a.apiClient.FeeEarnerHome(reqCtx)
	} else {
		user, err = a.apiClient.ClientHome(reqCtx)
	}
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			// The server no longer honours our token; apply the
			// stale-session policy.
			if loggedOut, hErr := a.controller.HandleUnauthorized(reqCtx); hErr == nil && loggedOut {
				printlnFn("Your session has expired. Please log in again.")
				return err
			}
		}
		if reason := api.Reason(err); reason != "" {
			printlnFn(reason)
		} else {
			printlnFn("Could not load the page, please try again later.")
		}
		return err
	}

	printlnFn(fmt.Sprintf("Welcome back, %s!", user.FullName))
	if required == models.RoleFeeEarner {
		printlnFn("Fee Earner Home: your matters and invitations live here.")
	} else {
		printlnFn("Client Home: your matters and documents live here.")
	}
	return nil
}
