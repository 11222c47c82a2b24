package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with
// a stub.
var printlnFn = fmt.Println

// commandSet defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type commandSet interface {
	isLoggedIn() bool
	Register(ctx context.Context, inviteToken string) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Home(ctx context.Context, view string) error
	Invite(ctx context.Context, email, role string) error
}

// runREPL starts a read–eval–print loop over the CasePort views.
//
// It reads a line from the scanner, parses the first token as the command,
// and dispatches to methods on 'a'. Unknown commands are reported back to
// the user. The loop exits on scanner EOF or when the user types "exit" or
// "quit".
//
// Errors returned by command handlers are ignored here; handlers present
// their own failures to the user. This keeps the loop resilient and focused
// on I/O.
func runREPL(ctx context.Context, a commandSet, statusFn func() string, scanner *bufio.Scanner) {
	printlnFn("Welcome to CasePort (type 'help' for commands)")

	for {
		printlnFn(fmt.Sprintf("caseport %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, home [client|fee-earner], invite <email> <role>, logout, exit")
			} else {
				printlnFn("Available commands: register [invite-token], login, exit")
			}

		case "register":
			token := ""
			if len(args) > 0 {
				token = args[0]
			}
			_ = a.Register(ctx, token)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "home":
			view := ""
			if len(args) > 0 {
				view = args[0]
			}
			_ = a.Home(ctx, view)

		case "invite":
			if len(args) < 2 {
				printlnFn("Usage: invite <email> <CLIENT|FEE_EARNER>")
				continue
			}
			_ = a.Invite(ctx, args[0], args[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
