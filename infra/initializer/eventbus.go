package initializer

import (
	"fmt"
	"log/slog"

	infra_eventbus "github.com/amirasaad/eaglebank/infra/eventbus"
	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/pkg/eventbus"
)

// initEventBus builds the configured bus. A driver without its address is a
// configuration error; a broker that cannot be reached falls back to the
// in-memory bus.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, func() error, error) {
	ebCfg := cfg.EventBus
	if ebCfg == nil {
		ebCfg = &config.EventBus{}
	}

	switch ebCfg.Driver {
	case "", "memory":
		return infra_eventbus.NewWithMemory(logger), noopClose, nil

	case "redis":
		url := ebCfg.RedisURL
		if url == "" && cfg.Redis != nil {
			url = cfg.Redis.URL
		}
		if url == "" {
			return nil, nil, fmt.Errorf("event bus driver redis requires EVENT_BUS_REDIS_URL or REDIS_URL")
		}
		bus, err := infra_eventbus.NewWithRedis(url, ebCfg.StreamPrefix, consumerGroup(ebCfg), logger)
		if err != nil {
			logger.Warn("Redis event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), noopClose, nil
		}
		logger.Info("Using Redis Streams event bus")
		return bus, bus.Close, nil

	case "kafka":
		kcfg := ebCfg.Kafka
		if kcfg == nil || kcfg.Brokers == "" {
			return nil, nil, fmt.Errorf("event bus driver kafka requires EVENT_BUS_KAFKA_BROKERS")
		}
		busCfg := infra_eventbus.DefaultKafkaEventBusConfig()
		if kcfg.GroupID != "" {
			busCfg.GroupID = kcfg.GroupID
		}
		if kcfg.TopicPrefix != "" {
			busCfg.TopicPrefix = kcfg.TopicPrefix
		}
		busCfg.SASLUsername = kcfg.SASLUsername
		busCfg.SASLPassword = kcfg.SASLPassword
		busCfg.TLSEnabled = kcfg.TLSEnabled
		busCfg.TLSSkipVerify = kcfg.TLSSkipVerify

		bus, err := infra_eventbus.NewWithKafka(kcfg.Brokers, logger, busCfg)
		if err != nil {
			logger.Warn("Kafka event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), noopClose, nil
		}
		logger.Info("Using Kafka event bus", "brokers", kcfg.Brokers)
		return bus, bus.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown event bus driver %q", ebCfg.Driver)
	}
}

func consumerGroup(cfg *config.EventBus) string {
	if cfg.Kafka != nil && cfg.Kafka.GroupID != "" {
		return cfg.Kafka.GroupID
	}
	return "eaglebank"
}
