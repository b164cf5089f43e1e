package initializer

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	infra_eventbus "github.com/amirasaad/eaglebank/infra/eventbus"
	"github.com/amirasaad/eaglebank/infra/repository/memory"
	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitialize_MemoryDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg := &config.App{
		Log: &config.Log{Format: "json", Prefix: "[test]"},
		DB:  &config.DB{},
	}

	deps, err := initialize(cfg, &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	assert.IsType(t, &memory.UoW{}, deps.Uow)
	assert.IsType(t, &lock.Memory{}, deps.Locker)
	assert.IsType(t, &infra_eventbus.MemoryEventBus{}, deps.EventBus)
	assert.Same(t, cfg, deps.Config)
	assert.Contains(t, out.String(), "in-memory store")
}

func TestInitialize_UnknownLockDriver(t *testing.T) {
	cfg := &config.App{Lock: &config.Lock{Driver: "zookeeper"}}

	_, err := initialize(cfg, io.Discard)
	assert.ErrorContains(t, err, "unknown lock driver")
}

func TestInitLocker_RedisRequiresURL(t *testing.T) {
	t.Parallel()
	cfg := &config.App{Lock: &config.Lock{Driver: "redis"}, Redis: &config.Redis{}}

	_, _, err := initLocker(cfg, discard())
	assert.Error(t, err)
}

func TestInitLocker_RedisUnreachable(t *testing.T) {
	t.Parallel()
	cfg := &config.App{
		Lock:  &config.Lock{Driver: "redis"},
		Redis: &config.Redis{URL: "redis://127.0.0.1:1/0"},
	}

	_, _, err := initLocker(cfg, discard())
	assert.Error(t, err, "an unreachable lock server is fatal")
}

func TestInitEventBus_DefaultsToMemory(t *testing.T) {
	t.Parallel()
	for _, driver := range []string{"", "memory"} {
		bus, closeFn, err := initEventBus(&config.App{EventBus: &config.EventBus{Driver: driver}}, discard())
		require.NoError(t, err)
		assert.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
		assert.NoError(t, closeFn())
	}

	bus, _, err := initEventBus(&config.App{}, discard())
	require.NoError(t, err)
	assert.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_ExplicitRedisRequiresURL(t *testing.T) {
	t.Parallel()
	cfg := &config.App{
		Redis:    &config.Redis{URL: ""},
		EventBus: &config.EventBus{Driver: "redis"},
	}

	_, _, err := initEventBus(cfg, discard())
	require.Error(t, err)
}

func TestInitEventBus_RedisConnectionErrorFallsBackToMemory(t *testing.T) {
	t.Parallel()
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "redis", RedisURL: "redis://127.0.0.1:1"},
	}

	bus, _, err := initEventBus(cfg, discard())
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_ExplicitKafkaRequiresBrokers(t *testing.T) {
	t.Parallel()
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "kafka", Kafka: &config.Kafka{}},
	}

	_, _, err := initEventBus(cfg, discard())
	require.Error(t, err)
}

func TestInitEventBus_KafkaConnectionErrorFallsBackToMemory(t *testing.T) {
	if testing.Short() {
		t.Skip("dials a closed port")
	}
	t.Parallel()
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "kafka", Kafka: &config.Kafka{Brokers: "127.0.0.1:1"}},
	}

	bus, _, err := initEventBus(cfg, discard())
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_UnknownDriver(t *testing.T) {
	t.Parallel()
	_, _, err := initEventBus(&config.App{EventBus: &config.EventBus{Driver: "nats"}}, discard())
	assert.ErrorContains(t, err, "unknown event bus driver")
}

func TestSetupLogger(t *testing.T) {
	var out bytes.Buffer
	logger := setupLogger(&config.Log{Format: "json", Prefix: "[eaglebank]"}, &out)

	logger.Info("Deposit successful", "account_id", "abc")
	assert.Contains(t, out.String(), `"msg":"Deposit successful"`)
	assert.Contains(t, out.String(), `"account_id":"abc"`)

	out.Reset()
	logger.Debug("hidden")
	assert.Empty(t, out.String(), "debug is below the default level")

	assert.NotPanics(t, func() { setupLogger(nil, io.Discard) })
}
