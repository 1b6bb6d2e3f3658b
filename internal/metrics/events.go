package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/reelflow/internal/event"
	"github.com/osse101/reelflow/internal/logger"
)

// EventMetricsCollector subscribes to session events and records metrics
type EventMetricsCollector struct {
	now     func() time.Time
	started *expirable.LRU[string, time.Time]
}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{
		now:     time.Now,
		started: expirable.NewLRU[string, time.Time](cycleTrackSize, nil, cycleTTL),
	}
}

// Register subscribes to every session event type
func (e *EventMetricsCollector) Register(bus event.Bus) {
	event.SubscribeAll(bus, event.AllTypes, e.HandleEvent)
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch p := evt.Payload.(type) {
	case event.RoundStartedPayloadV1:
		RoundsStarted.WithLabelValues(p.Path, string(p.GameMode)).Inc()
		if p.RoundID != "" {
			e.started.Add(p.RoundID, e.now())
		}

	case event.ReelsStoppedPayloadV1:
		if at, ok := e.started.Peek(p.RoundID); ok {
			SpinCycleDuration.Observe(e.now().Sub(at).Seconds())
			e.started.Remove(p.RoundID)
		}

	case event.RoundCompletedPayloadV1:
		RoundsCompleted.WithLabelValues(string(p.Record.GameMode)).Inc()
		AmountWagered.Add(p.Record.Bet.InexactFloat64())
		AmountWon.Add(p.Record.Win.InexactFloat64())

	case event.RequestCompletedPayloadV1:
		ServerRequests.WithLabelValues(p.Path, p.Outcome).Inc()
		ServerLatency.WithLabelValues(p.Path).Observe(p.Duration.Seconds())

	case event.ForceStoppedPayloadV1:
		ForceStops.WithLabelValues(strconv.FormatBool(p.AfterStopData)).Inc()

	case event.ReelFaultPayloadV1:
		ReelFaults.WithLabelValues(p.Op).Inc()

	case event.StateChangedPayloadV1:
		Transitions.WithLabelValues(p.From, p.To).Inc()

	case event.AutoplayStoppedPayloadV1:
		AutoplayStops.WithLabelValues(p.Reason).Inc()

	case event.SessionErrorPayloadV1:
		SessionErrors.WithLabelValues(string(p.Kind)).Inc()

	case event.AutoplayStartedPayloadV1:
		// only counted as published

	default:
		log.Debug(LogMsgUnexpectedPayload, "type", evt.Type)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
