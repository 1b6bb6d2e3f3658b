package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/reelflow/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe forwards every session event type to the hub.
func (s *Subscriber) Subscribe() {
	event.SubscribeAll(s.bus, event.AllTypes, s.forward)

	names := make([]string, len(event.AllTypes))
	for i, t := range event.AllTypes {
		names[i] = string(t)
	}
	slog.Info(LogMsgSubscriberReady, "types", names)
}

func (s *Subscriber) forward(_ context.Context, evt event.Event) error {
	payload := BusEventPayload{
		Version: evt.Version,
		Data:    evt.Payload,
	}
	if v, ok := evt.GetMetadataValue(event.MetadataKeySessionID).(string); ok {
		payload.SessionID = v
	}
	if v, ok := evt.GetMetadataValue(event.MetadataKeyRoundID).(string); ok {
		payload.RoundID = v
	}

	s.hub.Broadcast(string(evt.Type), payload)

	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "round_id", payload.RoundID)
	return nil
}
