package config

import (
	"log/slog"

	"github.com/amirasaad/eaglebank/pkg/eventbus"
	"github.com/amirasaad/eaglebank/pkg/lock"
	"github.com/amirasaad/eaglebank/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	Uow      repository.UnitOfWork
	Locker   lock.Locker
	EventBus eventbus.Bus
	Logger   *slog.Logger
	Config   *App
	// Close releases connections opened while building Deps.
	Close func() error
}
