package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mzaikin/caseport/internal/client/api"
	"github.com/mzaikin/caseport/internal/client/guard"
	"github.com/mzaikin/caseport/internal/client/models"
)

// Invite sends a platform invitation. Part of the fee-earner workflow, so
// the guard gates it like the fee-earner views; the server remains the
// final authority on who may invite.
func (a *App) Invite(ctx context.Context, email, roleArg string) error {
	snap := a.controller.State().Snapshot()
	switch guard.Decide(snap, models.RoleFeeEarner) {
	case guard.Pending:
		printlnFn("Loading...")
		return nil
	case guard.RedirectLogin:
		printlnFn("Please log in first.")
		return nil
	case guard.RedirectUnauthorized:
		printlnFn("Only fee earners can send invites.")
		return nil
	}

	role, err := models.ParseRole(roleArg)
	if err != nil {
		printlnFn("Role must be CLIENT or FEE_EARNER.")
		return err
	}

	reqCtx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.apiClient.SendInvite(reqCtx, email, role); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			if loggedOut, hErr := a.controller.HandleUnauthorized(reqCtx); hErr == nil && loggedOut {
				printlnFn("Your session has expired. Please log in again.")
				return err
			}
		}
		if reason := api.Reason(err); reason != "" {
			printlnFn(reason)
		} else {
			printlnFn("Could not send the invite, please try again later.")
		}
		return err
	}

	printlnFn(fmt.Sprintf("Invite sent to %s as %s.", email, role))
	return nil
}
