// Package cli is the interactive terminal front end of the CasePort client.
// It plays the part of the browser shell: it renders the login, registration
// and home views and consults the route guard before every guarded one.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/mzaikin/caseport/internal/client/api"
	"github.com/mzaikin/caseport/internal/client/config"
	"github.com/mzaikin/caseport/internal/client/credstore"
	"github.com/mzaikin/caseport/internal/client/session"
	"github.com/mzaikin/caseport/internal/logging"
)

type App struct {
	config     *config.Config
	controller *session.Controller
	apiClient  api.Client
	log        logging.Logger
	reader     *bufio.Reader
	db         *sql.DB
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	store, db, err := credstore.Open(ctx, cfg.CredentialDB)
	if err != nil {
		log.Error(ctx, "error opening credential store", "error", err)
		return nil, err
	}

	apiClient := api.NewHTTPClient(cfg.ServerBaseURL)

	controller := session.NewController(store, apiClient, log,
		session.WithUserResolution(cfg.ResolveUserOnRestore),
		session.WithLogoutOnUnauthorized(cfg.LogoutOnUnauthorized),
	)

	return &App{
		config:     cfg,
		controller: controller,
		apiClient:  apiClient,
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
		db:         db,
	}, nil
}

// Run restores the session and hands control to the REPL.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	initCtx, cancel := a.requestContext(ctx)
	err := a.controller.Initialize(initCtx)
	cancel()
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
	return nil
}

func (a *App) Close() {
	_ = a.apiClient.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	snap := a.controller.State().Snapshot()
	return snap.Token != "" && snap.User != nil
}

func (a *App) status() string {
	snap := a.controller.State().Snapshot()
	if snap.Loading {
		return "(loading)"
	}
	if snap.User == nil {
		return ""
	}
	return "(" + snap.User.Email + " " + string(snap.User.Role) + ")"
}

// requestContext bounds one remote exchange. Cancelling it is the
// terminal-world equivalent of navigating away mid-request.
func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
