// Package app assembles the services from their shared dependencies.
package app

import (
	"log/slog"

	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/service/account"
	"github.com/amirasaad/eaglebank/pkg/service/auth"
	"github.com/amirasaad/eaglebank/pkg/service/transaction"
	"github.com/amirasaad/eaglebank/pkg/service/user"
)

type App struct {
	Deps               config.Deps
	Config             *config.App
	AuthService        *auth.Service
	UserService        *user.Service
	AccountService     *account.Service
	TransactionService *transaction.Service
}

func New(deps config.Deps) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	app := &App{
		Deps:   deps,
		Config: deps.Config,
	}
	app.setupEventBus()

	app.AuthService = auth.NewService(deps)
	app.UserService = user.NewService(deps)
	app.AccountService = account.NewService(deps)
	app.TransactionService = transaction.NewService(deps)
	return app
}
