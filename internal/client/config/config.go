// Package config loads runtime configuration for the CasePort client.
//
// Sources are layered, later ones winning: built-in defaults, a local .env
// file, environment variables, command-line flags.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the CasePort client.
type Config struct {
	// ServerBaseURL is the root of the platform API, including the /api
	// prefix.
	ServerBaseURL string `env:"CASEPORT_SERVER_URL"`

	// CredentialDB is the path of the profile database holding the session
	// token. One file per profile.
	CredentialDB string `env:"CASEPORT_CREDENTIAL_DB"`

	// RequestTimeout bounds each remote call issued by the CLI.
	RequestTimeout time.Duration `env:"CASEPORT_REQUEST_TIMEOUT"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"CASEPORT_LOG_LEVEL"`

	// ResolveUserOnRestore re-fetches the user record for a restored token
	// on startup.
	ResolveUserOnRestore bool `env:"CASEPORT_RESOLVE_ON_RESTORE"`

	// LogoutOnUnauthorized tears the session down when an authenticated
	// request is rejected by the server.
	LogoutOnUnauthorized bool `env:"CASEPORT_LOGOUT_ON_UNAUTHORIZED"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000/api"
	c.CredentialDB = "caseport.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.ResolveUserOnRestore = true
	c.LogoutOnUnauthorized = true
}

// Load constructs a Config: defaults, then .env (if present), then
// environment variables, then the given command-line arguments
// (usually os.Args[1:]).
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseFlags overlays Config with command-line flags. Defaults shown in
// -help reflect whatever the earlier layers produced.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("caseport", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the platform API")
	fs.StringVar(&cfg.CredentialDB, "d", cfg.CredentialDB, "path to the profile credential database")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	return fs.Parse(args)
}
