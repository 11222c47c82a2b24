package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mzaikin/caseport/internal/client/api"
	"github.com/mzaikin/caseport/internal/client/guard"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates through the session
// controller. Every failure is presented to the user; control always
// returns to the prompt so they may retry.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	reqCtx, cancel := a.requestContext(ctx)
	defer cancel()

	user, err := a.controller.Login(reqCtx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrUnavailable):
			printlnFn("Server unavailable, please try again later.")
		case api.Reason(err) != "":
			printlnFn(api.Reason(err))
		default:
			printlnFn("Login failed.")
		}
		return err
	}

	printlnFn(fmt.Sprintf("Logged in as %s (%s)", user.Email, user.Role))
	return nil
}

// Logout clears the session. Safe to run when already logged out.
func (a *App) Logout(ctx context.Context) error {
	reqCtx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.controller.Logout(reqCtx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	printlnFn("Logged out.")
	return nil
}

// Whoami shows the current session's user.
func (a *App) Whoami(ctx context.Context) error {
	snap := a.controller.State().Snapshot()
	if guard.Decide(snap, guard.AnyRole) != guard.Render {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> %s", snap.User.FullName, snap.User.Email, snap.User.Role))
	return nil
}
