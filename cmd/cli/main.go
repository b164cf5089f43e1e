// Command cli is an interactive terminal client for the ledger. It talks to
// the services directly, using Postgres when DATABASE_URL is set and an
// in-memory store otherwise.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/eaglebank/infra/initializer"
	"github.com/amirasaad/eaglebank/pkg/app"
	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/fatih/color"
)

func main() {
	if err := run(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err) //nolint:errcheck
		os.Exit(1)
	}
}

func run() error {
	// Config and startup logs would drown the prompt.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	if cfg.Log != nil {
		cfg.Log.Level = int(slog.LevelError)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close() //nolint:errcheck

	sess := newSession(app.New(deps), os.Stdin, os.Stdout)
	sess.readPassword = terminalPassword(os.Stdin)
	return sess.loop()
}
