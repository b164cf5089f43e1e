// Package initializer builds the process dependencies from configuration.
package initializer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/eaglebank/infra"
	infra_lock "github.com/amirasaad/eaglebank/infra/lock"
	infra_repository "github.com/amirasaad/eaglebank/infra/repository"
	"github.com/amirasaad/eaglebank/infra/repository/memory"
	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/lock"
	"github.com/amirasaad/eaglebank/pkg/repository"
)

// InitializeDependencies initializes all the application dependencies. The
// returned Deps.Close releases every connection opened here.
func InitializeDependencies(cfg *config.App) (deps config.Deps, err error) {
	return initialize(cfg, os.Stdout)
}

func initialize(cfg *config.App, out io.Writer) (deps config.Deps, err error) {
	logger := setupLogger(cfg.Log, out)
	deps.Logger = logger
	deps.Config = cfg

	var closers []func() error
	deps.Close = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	defer func() {
		if err != nil {
			_ = deps.Close()
		}
	}()

	uow, closeDB, err := initStore(cfg, logger)
	if err != nil {
		return deps, err
	}
	deps.Uow = uow
	closers = append(closers, closeDB)

	locker, closeLock, err := initLocker(cfg, logger)
	if err != nil {
		return deps, err
	}
	deps.Locker = locker
	closers = append(closers, closeLock)

	bus, closeBus, err := initEventBus(cfg, logger)
	if err != nil {
		return deps, err
	}
	deps.EventBus = bus
	closers = append(closers, closeBus)

	return deps, nil
}

func noopClose() error { return nil }

// initStore connects to Postgres when DATABASE_URL is set and falls back to
// the in-memory store otherwise.
func initStore(cfg *config.App, logger *slog.Logger) (repository.UnitOfWork, func() error, error) {
	if cfg.DB == nil || cfg.DB.Url == "" {
		logger.Warn("DATABASE_URL is not set, using the in-memory store; data is lost on exit")
		return memory.NewUoW(memory.NewStore()), noopClose, nil
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DB.AutoMigrate {
		if err = infra.RunMigrations(db, cfg.DB.MigrationsPath, logger); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
	}
	logger.Info("Database connected")
	return infra_repository.NewUoW(db), sqlDB.Close, nil
}

func initLocker(cfg *config.App, logger *slog.Logger) (lock.Locker, func() error, error) {
	driver := "memory"
	if cfg.Lock != nil && cfg.Lock.Driver != "" {
		driver = cfg.Lock.Driver
	}

	switch driver {
	case "memory":
		return lock.NewMemory(), noopClose, nil
	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, nil, fmt.Errorf("lock driver redis requires REDIS_URL")
		}
		locker, err := infra_lock.NewRedisLocker(cfg.Redis.URL, cfg.Redis.KeyPrefix, cfg.Redis.LockTTL, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Redis account locks")
		return locker, locker.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown lock driver %q", driver)
	}
}
