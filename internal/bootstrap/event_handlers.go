package bootstrap

import (
	"log/slog"
	"time"

	"github.com/osse101/reelflow/internal/event"
	"github.com/osse101/reelflow/internal/history"
	"github.com/osse101/reelflow/internal/metrics"
	"github.com/osse101/reelflow/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus    event.Bus
	Hub         *sse.Hub
	HistorySize int
	HistoryTTL  time.Duration
}

// RegisterEventHandlers sets up all event subscribers:
// - Metrics collector (round, reel and autoplay metrics)
// - History recorder (recent rounds for the history view)
// - SSE subscriber (forwards bus events to stream clients)
func RegisterEventHandlers(deps EventHandlerDependencies) *history.Recorder {
	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	recorder := history.NewRecorder(deps.HistorySize, deps.HistoryTTL)
	recorder.Register(deps.EventBus)
	slog.Info(LogMsgHistoryRecorderRegistered, "size", deps.HistorySize, "ttl", deps.HistoryTTL)

	if deps.Hub != nil {
		sse.NewSubscriber(deps.Hub, deps.EventBus).Subscribe()
		slog.Info(LogMsgSSESubscriberRegistered)
	}

	return recorder
}
