package eventbus

import (
	"context"
	"log/slog"

	"github.com/amirasaad/eaglebank/pkg/domain/events"
)

// EmitAll emits evts in order on bus. It is called after the unit of work has
// committed, so a failed emit is logged and never returned: the ledger is
// already durable. A nil bus is a no-op.
func EmitAll(ctx context.Context, bus Bus, logger *slog.Logger, evts ...events.Event) {
	if bus == nil {
		return
	}
	for _, evt := range evts {
		if err := bus.Emit(ctx, evt); err != nil {
			logger.Error("failed to emit event", "type", evt.Type(), "error", err)
		}
	}
}
