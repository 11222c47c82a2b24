package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mzaikin/caseport/internal/client/register"
)

// Register walks the user through the registration form, optionally
// pre-filled from an invite token passed on the command line (the terminal
// stand-in for the invite link's query parameter).
//
// A successful registration does not authenticate; the user is pointed at
// the login view, as on the platform.
func (a *App) Register(ctx context.Context, inviteToken string) error {
	flow := register.NewFlow(a.controller, a.apiClient)

	if inviteToken != "" {
		reqCtx, cancel := a.requestContext(ctx)
		err := flow.LoadInvite(reqCtx, inviteToken)
		cancel()
		if err != nil {
			// Verification failure does not block registration; the form
			// simply stays fully editable.
			printlnFn(flow.Reason())
		} else if inv := flow.Invite(); inv != nil {
			printlnFn(fmt.Sprintf("You've been invited to join as a %s", inv.Role))
		}
	}

	fullName, err := getSimpleText(a.reader, "Full name", os.Stdout)
	if err != nil {
		return err
	}
	flow.SetFullName(fullName)

	if flow.EmailLocked() {
		printlnFn("Email (from invite):", flow.Draft().Email)
	} else {
		email, err := getSimpleText(a.reader, "Email", os.Stdout)
		if err != nil {
			return err
		}
		if err := flow.SetEmail(email); err != nil {
			return err
		}
	}

	password, err := getPassword("Password", os.Stdout)
	if err != nil {
		return err
	}
	flow.SetPassword(password)

	confirm, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}
	flow.SetConfirmPassword(confirm)

	reqCtx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := flow.Submit(reqCtx); err != nil {
		printlnFn(flow.Reason())
		return err
	}

	printlnFn("Account created. Please log in.")
	return nil
}
