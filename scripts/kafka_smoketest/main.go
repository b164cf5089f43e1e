// Command kafka_smoketest publishes one ledger event through the Kafka event
// bus and waits for it to come back through the consumer group, to verify a
// cluster before pointing the server at it.
//
// Usage: BROKERS=localhost:9092 go run ./scripts/kafka_smoketest
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/eaglebank/infra/eventbus"
	"github.com/amirasaad/eaglebank/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunSmokeTest round-trips a TransactionPosted event through Kafka.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9093,localhost:9092"
	}
	cfg := infra_eventbus.DefaultKafkaEventBusConfig()
	if groupID := strings.TrimSpace(os.Getenv("GROUP_ID")); groupID != "" {
		cfg.GroupID = groupID
	}
	cfg.TopicPrefix = "eaglebank.smoketest"

	bus, err := infra_eventbus.NewWithKafka(brokers, logger, cfg)
	if err != nil {
		logger.Error("connect failed", "error", err)
		return err
	}
	defer func() { _ = bus.Close() }()

	sent := events.TransactionPosted{
		TransactionID: uuid.New(),
		AccountID:     uuid.New(),
		OwnerID:       uuid.New(),
		Kind:          "DEPOSIT",
		Amount:        decimal.RequireFromString("12.34"),
		Balance:       decimal.RequireFromString("12.34"),
		Currency:      "GBP",
		OccurredAt:    time.Now().UTC(),
	}

	received := make(chan events.TransactionPosted, 1)
	bus.Register(events.EventTypeTransactionPosted, func(_ context.Context, e events.Event) error {
		var got events.TransactionPosted
		switch v := e.(type) {
		case *events.TransactionPosted:
			got = *v
		case events.TransactionPosted:
			got = v
		default:
			return nil
		}
		if got.TransactionID == sent.TransactionID {
			select {
			case received <- got:
			default:
			}
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bus.Emit(ctx, sent); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "transaction_id", sent.TransactionID)

	select {
	case got := <-received:
		if !got.Amount.Equal(sent.Amount) {
			return errors.New("consumed event does not match the produced one")
		}
		logger.Info("consumed", "transaction_id", got.TransactionID, "amount", got.Amount.String())
	case <-ctx.Done():
		logger.Error("no event consumed before the deadline")
		return ctx.Err()
	}

	logger.Info("kafka smoke test passed")
	return nil
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
