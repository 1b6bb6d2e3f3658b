package bootstrap

import (
	"log/slog"

	"github.com/osse101/reelflow/internal/event"
	"github.com/osse101/reelflow/internal/sse"
)

// InitializeEventSystem creates the event bus and starts the SSE hub that fans
// bus and UI events out to browser clients.
func InitializeEventSystem() (*event.MemoryBus, *sse.Hub) {
	bus := event.NewMemoryBus()
	hub := sse.NewHub()
	hub.Start()

	slog.Info(LogMsgEventSystemInitialized, "event_types", len(event.AllTypes))
	return bus, hub
}
