package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/eaglebank/pkg/domain/events"
	"github.com/amirasaad/eaglebank/pkg/eventbus"
)

const defaultTopicPrefix = "eaglebank.events"

// envelope is the wire format shared by the Kafka and Redis buses.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func encodeEnvelope(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	envBytes, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return envBytes, nil
}

func decodeEnvelope(raw []byte) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	constructor, ok := events.EventTypes[events.EventType(env.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
	evt := constructor()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
	}
	return evt, nil
}

// topicNameFor names the topic or stream of an event type, e.g.
// "eaglebank.events.transaction.posted".
func topicNameFor(prefix string, eventType events.EventType) string {
	return streamPrefix(prefix) + "." + strings.ToLower(eventType.String())
}

// dlqTopicNameFor names the dead letter topic or stream of an event type.
func dlqTopicNameFor(prefix string, eventType events.EventType) string {
	return streamPrefix(prefix) + ".dlq." + strings.ToLower(eventType.String())
}

func streamPrefix(prefix string) string {
	if p := strings.TrimSpace(prefix); p != "" {
		return p
	}
	return defaultTopicPrefix
}

// runHandlers calls each handler in turn. A failing or panicking handler does
// not stop the others; the result reports whether all of them succeeded.
func runHandlers(ctx context.Context, logger *slog.Logger, evt events.Event, handlers []eventbus.HandlerFunc) bool {
	ok := true
	for _, h := range handlers {
		if err := callHandler(ctx, h, evt); err != nil {
			logger.Error("handler failed", "error", err, "event_type", evt.Type())
			ok = false
		}
	}
	return ok
}

func callHandler(ctx context.Context, h eventbus.HandlerFunc, evt events.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, evt)
}
