package app

import (
	"context"
	"log/slog"
	"sort"

	"github.com/amirasaad/eaglebank/pkg/domain/events"
	"github.com/amirasaad/eaglebank/pkg/eventbus"
)

// setupEventBus registers the audit logger for every event type.
func (a *App) setupEventBus() {
	bus := a.Deps.EventBus
	if bus == nil {
		return
	}
	handler := AuditHandler(a.Deps.Logger)
	for _, t := range RegisteredEventTypes() {
		bus.Register(t, handler)
	}
}

// RegisteredEventTypes returns every known event type in a stable order.
func RegisteredEventTypes() []events.EventType {
	types := make([]events.EventType, 0, len(events.EventTypes))
	for t := range events.EventTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// AuditHandler logs each event it receives. It never fails, so an event is
// never sent to a dead letter queue because of auditing.
func AuditHandler(logger *slog.Logger) eventbus.HandlerFunc {
	logger = logger.With("handler", "audit")
	return func(ctx context.Context, e events.Event) error {
		logger.InfoContext(ctx, "Event received", "event_type", e.Type(), "event", e)
		return nil
	}
}
