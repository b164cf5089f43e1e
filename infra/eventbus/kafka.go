package eventbus

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/eaglebank/pkg/domain/events"
	"github.com/amirasaad/eaglebank/pkg/eventbus"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// KafkaEventBusConfig holds configuration for the Kafka event bus.
type KafkaEventBusConfig struct {
	GroupID       string
	TopicPrefix   string
	SASLUsername  string
	SASLPassword  string
	TLSEnabled    bool
	TLSSkipVerify bool
}

// DefaultKafkaEventBusConfig returns default configuration for KafkaEventBus.
func DefaultKafkaEventBusConfig() *KafkaEventBusConfig {
	return &KafkaEventBusConfig{
		GroupID:     "eaglebank",
		TopicPrefix: defaultTopicPrefix,
	}
}

// KafkaEventBus publishes ledger events to one topic per event type. Every
// registered type gets a consumer group reader; messages whose handlers fail
// go to the dead letter topic of their type.
type KafkaEventBus struct {
	brokers []string
	config  KafkaEventBusConfig
	dialer  *kafka.Dialer
	writer  *kafka.Writer
	logger  *slog.Logger

	mu       sync.Mutex
	handlers map[events.EventType][]eventbus.HandlerFunc
	readers  map[events.EventType]*kafka.Reader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithKafka connects to brokers, a comma separated list such as
// "localhost:9092,localhost:9093", and creates the topics of every ledger
// event type.
func NewWithKafka(brokers string, logger *slog.Logger, config *KafkaEventBusConfig) (*KafkaEventBus, error) {
	addrs := parseBrokers(brokers)
	if len(addrs) == 0 {
		return nil, errors.New("kafka event bus: brokers are required")
	}
	if config == nil {
		config = DefaultKafkaEventBusConfig()
	}
	cfg := *config
	if cfg.GroupID == "" {
		cfg.GroupID = "eaglebank"
	}
	if logger == nil {
		logger = slog.Default()
	}

	mechanism, err := buildKafkaSASLMechanism(&cfg)
	if err != nil {
		return nil, err
	}
	var tlsConfig *tls.Config
	if cfg.TLSEnabled {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: cfg.TLSSkipVerify} //nolint:gosec
	}
	dialer := &kafka.Dialer{Timeout: 5 * time.Second, TLS: tlsConfig, SASLMechanism: mechanism}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		RequiredAcks: kafka.RequireOne,
		Balancer:     &kafka.Hash{},
	}
	if tlsConfig != nil || mechanism != nil {
		writer.Transport = &kafka.Transport{TLS: tlsConfig, SASL: mechanism}
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &KafkaEventBus{
		brokers:  addrs,
		config:   cfg,
		dialer:   dialer,
		writer:   writer,
		logger:   logger.With("bus", "kafka"),
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		readers:  make(map[events.EventType]*kafka.Reader),
		ctx:      ctx,
		cancel:   cancel,
	}
	if err := b.createTopics(ctx); err != nil {
		_ = b.Close()
		return nil, err
	}

	b.logger.Info("Kafka event bus initialized",
		"group_id", cfg.GroupID,
		"brokers", addrs,
		"tls_enabled", tlsConfig != nil,
		"sasl_enabled", mechanism != nil,
	)
	return b, nil
}

// createTopics creates the topic and dead letter topic of each event type.
// Topics that already exist are left alone.
func (b *KafkaEventBus) createTopics(ctx context.Context) error {
	conn, err := b.dialer.DialContext(ctx, "tcp", b.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka event bus: connection failed: %w", err)
	}
	defer conn.Close() //nolint:errcheck

	topics := make([]kafka.TopicConfig, 0, 2*len(events.EventTypes))
	for eventType := range events.EventTypes {
		for _, name := range []string{
			topicNameFor(b.config.TopicPrefix, eventType),
			dlqTopicNameFor(b.config.TopicPrefix, eventType),
		} {
			topics = append(topics, kafka.TopicConfig{Topic: name, NumPartitions: 1, ReplicationFactor: 1})
		}
	}
	if err := conn.CreateTopics(topics...); err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("kafka event bus: create topics: %w", err)
	}
	return nil
}

// Close stops the readers and flushes the writer.
func (b *KafkaEventBus) Close() error {
	b.cancel()
	b.mu.Lock()
	for _, r := range b.readers {
		_ = r.Close()
	}
	b.mu.Unlock()
	b.wg.Wait()
	return b.writer.Close()
}

// Register adds a handler and starts the reader of eventType on first use.
func (b *KafkaEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	if _, running := b.readers[eventType]; running {
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.config.GroupID,
		Topic:       topicNameFor(b.config.TopicPrefix, eventType),
		StartOffset: kafka.FirstOffset,
		MaxWait:     time.Second,
		Dialer:      b.dialer,
	})
	b.readers[eventType] = reader
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(eventType, reader)
	}()
}

// Emit publishes an event to the topic of its type, keyed by the type.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	payload, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}
	err = b.writer.WriteMessages(ctx, kafka.Message{
		Topic: topicNameFor(b.config.TopicPrefix, events.EventType(event.Type())),
		Key:   []byte(event.Type()),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

// consume commits a message once its handlers ran, or once it reached the
// dead letter topic. A message that could be neither is fetched again.
func (b *KafkaEventBus) consume(eventType events.EventType, reader *kafka.Reader) {
	log := b.logger.With("event_type", eventType)
	for {
		msg, err := reader.FetchMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			log.Error("kafka fetch failed", "error", err)
			b.pause()
			continue
		}
		if err := b.handle(eventType, msg); err != nil {
			log.Error("kafka message not handled, will retry", "error", err, "offset", msg.Offset)
			b.pause()
			continue
		}
		if err := reader.CommitMessages(b.ctx, msg); err != nil {
			log.Error("kafka commit failed", "error", err, "offset", msg.Offset)
		}
	}
}

func (b *KafkaEventBus) handle(eventType events.EventType, msg kafka.Message) error {
	evt, err := decodeEnvelope(msg.Value)
	if err != nil {
		// nothing will ever decode it
		b.logger.Error("dropping undecodable message", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		return nil
	}
	b.mu.Lock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[eventType]...)
	b.mu.Unlock()
	if runHandlers(b.ctx, b.logger, evt, handlers) {
		return nil
	}

	dlq := dlqTopicNameFor(b.config.TopicPrefix, eventType)
	if err := b.writer.WriteMessages(b.ctx, kafka.Message{Topic: dlq, Key: msg.Key, Value: msg.Value}); err != nil {
		return fmt.Errorf("dlq publish failed: %w", err)
	}
	b.logger.Warn("message sent to DLQ", "event_type", eventType, "dlq_topic", dlq)
	return nil
}

func (b *KafkaEventBus) pause() {
	select {
	case <-b.ctx.Done():
	case <-time.After(500 * time.Millisecond):
	}
}

func buildKafkaSASLMechanism(config *KafkaEventBusConfig) (sasl.Mechanism, error) {
	username := strings.TrimSpace(config.SASLUsername)
	password := strings.TrimSpace(config.SASLPassword)
	switch {
	case username == "" && password == "":
		return nil, nil
	case username == "" || password == "":
		return nil, errors.New("kafka event bus: sasl username and password are required")
	}
	return plain.Mechanism{Username: username, Password: password}, nil
}

func parseBrokers(brokers string) []string {
	var out []string
	for _, p := range strings.Split(brokers, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
