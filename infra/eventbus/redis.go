package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/eaglebank/pkg/domain/events"
	"github.com/amirasaad/eaglebank/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisEventBus implements the event bus on Redis Streams. Each event type
// gets its own stream, read through a consumer group.
type RedisEventBus struct {
	client *redis.Client
	prefix string
	group  string
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis creates a new Redis-backed event bus.
// url: Redis connection URL (e.g., "redis://localhost:6379")
// prefix: Stream name prefix; the event type is appended
// group: Consumer group name for event processing
func NewWithRedis(url, prefix, group string, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" {
		return nil, fmt.Errorf("redis event bus: url is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultTopicPrefix
	}
	if group == "" {
		group = "eaglebank"
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		prefix: prefix,
		group:  group,
		logger: logger.With("bus", "redis"),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Close stops all consumers and closes the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

// Emit publishes an event to the stream of its type.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}

	stream := topicNameFor(b.prefix, events.EventType(event.Type()))
	_, err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"event": string(envBytes)},
	}).Result()
	if err != nil {
		b.logger.Error("failed to emit event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	return nil
}

// Register starts a consumer for the event type's stream, calling handler for
// each event.
func (b *RedisEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	stream := topicNameFor(b.prefix, eventType)
	consumer := fmt.Sprintf("consumer-%s-%d", eventType, time.Now().UnixNano())

	err := b.client.XGroupCreateMkStream(b.ctx, stream, b.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		b.logger.Error("failed to create consumer group", "error", err, "stream", stream)
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consumeLoop(stream, consumer, eventType, handler)
	}()
	b.logger.Info("handler registered", "event_type", eventType, "consumer", consumer)
}

func (b *RedisEventBus) consumeLoop(stream, consumer string, eventType events.EventType, handler eventbus.HandlerFunc) {
	for {
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    b.group,
			Consumer: consumer,
			Streams:  []string{stream, ">"},
			Count:    10,
			Block:    time.Second,
		}).Result()
		if b.ctx.Err() != nil {
			return
		}
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "error", err, "consumer", consumer)
				time.Sleep(time.Second)
			}
			continue
		}

		for _, s := range res {
			for _, msg := range s.Messages {
				b.handleMessage(stream, msg, eventType, handler)
			}
		}
	}
}

func (b *RedisEventBus) handleMessage(stream string, msg redis.XMessage, eventType events.EventType, handler eventbus.HandlerFunc) {
	defer func() {
		if err := b.client.XAck(b.ctx, stream, b.group, msg.ID).Err(); err != nil {
			b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
		}
	}()

	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.pushToDLQ(eventType, msg.Values)
		return
	}
	evt, err := decodeEnvelope([]byte(raw))
	if err != nil {
		b.logger.Error("failed to decode event", "error", err, "event_type", eventType)
		b.pushToDLQ(eventType, msg.Values)
		return
	}
	if !runHandlers(b.ctx, b.logger, evt, []eventbus.HandlerFunc{handler}) {
		b.pushToDLQ(eventType, msg.Values)
	}
}

// pushToDLQ pushes the raw message to the dead letter stream of its type.
func (b *RedisEventBus) pushToDLQ(eventType events.EventType, values map[string]any) {
	dlqStream := dlqTopicNameFor(b.prefix, eventType)
	if err := b.client.XAdd(b.ctx, &redis.XAddArgs{
		Stream: dlqStream,
		Values: values,
	}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", dlqStream)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlqStream)
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
