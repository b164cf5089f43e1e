// Package pgtest starts a throwaway Postgres for integration tests and applies
// the schema migrations to it.
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/amirasaad/eaglebank/infra"
	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// MigrationsDir returns the absolute path of infra/migrations.
func MigrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "..", "infra", "migrations")
}

// Start runs postgres:15-alpine, migrates it and returns an open connection
// with its DSN. The test is skipped in -short mode or when Docker is missing.
func Start(tb testing.TB) (*gorm.DB, string) {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping postgres integration test in short mode")
	}
	defer func() {
		if r := recover(); r != nil {
			tb.Skipf("docker is not available: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("eaglebank"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		tb.Skipf("skipping postgres integration test: %v", err)
	}
	tb.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("postgres connection string: %v", err)
	}
	db, err := infra.NewDBConnection(&config.DB{Url: dsn}, "test")
	if err != nil {
		tb.Fatalf("connect to postgres: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err = infra.RunMigrations(db, MigrationsDir(), logger); err != nil {
		tb.Fatalf("run migrations: %v", err)
	}
	return db, dsn
}
