package eventbus

import (
	"context"

	"github.com/amirasaad/eaglebank/pkg/domain/events"
)

// HandlerFunc handles one event.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus defines the contract for publishing and subscribing to domain events.
// Services emit only after their unit of work has committed.
type Bus interface {
	Emit(ctx context.Context, event events.Event) error
	Register(eventType events.EventType, handler HandlerFunc)
}
