package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// WithSessionID returns a copy of e whose metadata carries the session ID.
func (e Event) WithSessionID(id string) Event {
	md := map[string]interface{}{MetadataKeySessionID: id}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		for k, v := range m {
			md[k] = v
		}
	}
	e.Metadata = md
	return e
}

// Event types published by a game session.
// Event types follow the pattern: <entity>.<action>
const (
	RoundStarted     Type = "round.started"
	ReelsStopped     Type = "reels.stopped"
	RoundCompleted   Type = "round.completed"
	AutoplayStarted  Type = "autoplay.started"
	AutoplayStopped  Type = "autoplay.stopped"
	SessionError     Type = "session.error"
	ReelFault        Type = "machine.reel_fault"
	ForceStopped     Type = "machine.force_stopped"
	StateChanged     Type = "flow.state_changed"
	RequestCompleted Type = "request.completed"
)

// AllTypes lists every type a session publishes, for subscribers that want everything.
var AllTypes = []Type{
	RoundStarted,
	ReelsStopped,
	RoundCompleted,
	AutoplayStarted,
	AutoplayStopped,
	SessionError,
	ReelFault,
	ForceStopped,
	StateChanged,
	RequestCompleted,
}

// Typed event payloads for type safety

// RoundStartedPayloadV1 is the typed payload for round.started events
type RoundStartedPayloadV1 struct {
	RoundID   string          `json:"round_id"`
	Path      string          `json:"path"`
	Bet       decimal.Decimal `json:"bet"`
	GameMode  domain.GameMode `json:"game_mode"`
	Deferred  bool            `json:"deferred"`
	Autoplay  bool            `json:"autoplay"`
	Timestamp int64           `json:"timestamp"`
}

// ReelsStoppedPayloadV1 is the typed payload for reels.stopped events
type ReelsStoppedPayloadV1 struct {
	RoundID string        `json:"round_id"`
	Landing domain.Layout `json:"landing"`
}

// RoundCompletedPayloadV1 is the typed payload for round.completed events
type RoundCompletedPayloadV1 struct {
	Record domain.RoundRecord `json:"record"`
}

// AutoplayStartedPayloadV1 is the typed payload for autoplay.started events
type AutoplayStartedPayloadV1 struct {
	Settings domain.AutoplaySettings `json:"settings"`
}

// AutoplayStoppedPayloadV1 is the typed payload for autoplay.stopped events
type AutoplayStoppedPayloadV1 struct {
	Reason   string          `json:"reason"`
	TotalWin decimal.Decimal `json:"total_win"`
}

// SessionErrorPayloadV1 is the typed payload for session.error events
type SessionErrorPayloadV1 struct {
	RoundID string           `json:"round_id,omitempty"`
	Kind    domain.PopupKind `json:"kind"`
	Code    string           `json:"code,omitempty"`
	Message string           `json:"message"`
}

// ReelFaultPayloadV1 is the typed payload for machine.reel_fault events
type ReelFaultPayloadV1 struct {
	Reel  int    `json:"reel"`
	Op    string `json:"op"`
	Error string `json:"error"`
}

// ForceStoppedPayloadV1 is the typed payload for machine.force_stopped events
type ForceStoppedPayloadV1 struct {
	RoundID       string `json:"round_id,omitempty"`
	AfterStopData bool   `json:"after_stop_data"`
}

// StateChangedPayloadV1 is the typed payload for flow.state_changed events
type StateChangedPayloadV1 struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Cause string `json:"cause"`
}

// RequestCompletedPayloadV1 is the typed payload for request.completed events
type RequestCompletedPayloadV1 struct {
	Path     string        `json:"path"`
	Duration time.Duration `json:"duration"`
	Outcome  string        `json:"outcome"`
}

// Type-safe event constructors

func newEvent(t Type, payload interface{}, roundID string) Event {
	var md Metadata
	if roundID != "" {
		md = map[string]interface{}{MetadataKeyRoundID: roundID}
	}
	return Event{Version: EventSchemaVersion, Type: t, Payload: payload, Metadata: md}
}

// NewRoundStartedEvent creates a new round.started event
func NewRoundStartedEvent(roundID, path string, bet decimal.Decimal, mode domain.GameMode, deferred, autoplay bool) Event {
	return newEvent(RoundStarted, RoundStartedPayloadV1{
		RoundID:   roundID,
		Path:      path,
		Bet:       bet,
		GameMode:  mode,
		Deferred:  deferred,
		Autoplay:  autoplay,
		Timestamp: time.Now().Unix(),
	}, roundID)
}

// NewReelsStoppedEvent creates a new reels.stopped event
func NewReelsStoppedEvent(roundID string, landing domain.Layout) Event {
	return newEvent(ReelsStopped, ReelsStoppedPayloadV1{RoundID: roundID, Landing: landing.Clone()}, roundID)
}

// NewRoundCompletedEvent creates a new round.completed event
func NewRoundCompletedEvent(record domain.RoundRecord) Event {
	return newEvent(RoundCompleted, RoundCompletedPayloadV1{Record: record}, record.RoundID)
}

// NewAutoplayStartedEvent creates a new autoplay.started event
func NewAutoplayStartedEvent(settings domain.AutoplaySettings) Event {
	return newEvent(AutoplayStarted, AutoplayStartedPayloadV1{Settings: settings}, "")
}

// NewAutoplayStoppedEvent creates a new autoplay.stopped event
func NewAutoplayStoppedEvent(reason string, totalWin decimal.Decimal) Event {
	return newEvent(AutoplayStopped, AutoplayStoppedPayloadV1{Reason: reason, TotalWin: totalWin}, "")
}

// NewSessionErrorEvent creates a new session.error event
func NewSessionErrorEvent(roundID string, popup *domain.Popup) Event {
	p := SessionErrorPayloadV1{RoundID: roundID}
	if popup != nil {
		p.Kind = popup.Kind
		p.Code = popup.Code
		p.Message = popup.Message
	}
	return newEvent(SessionError, p, roundID)
}

// NewReelFaultEvent creates a new machine.reel_fault event
func NewReelFaultEvent(reel int, op string, err error) Event {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return newEvent(ReelFault, ReelFaultPayloadV1{Reel: reel, Op: op, Error: msg}, "")
}

// NewForceStoppedEvent creates a new machine.force_stopped event
func NewForceStoppedEvent(roundID string, afterStopData bool) Event {
	return newEvent(ForceStopped, ForceStoppedPayloadV1{RoundID: roundID, AfterStopData: afterStopData}, roundID)
}

// NewStateChangedEvent creates a new flow.state_changed event
func NewStateChangedEvent(from, to, cause string) Event {
	return newEvent(StateChanged, StateChangedPayloadV1{From: from, To: to, Cause: cause}, "")
}

// NewRequestCompletedEvent creates a new request.completed event
func NewRequestCompletedEvent(path string, d time.Duration, outcome string) Event {
	return newEvent(RequestCompleted, RequestCompletedPayloadV1{Path: path, Duration: d, Outcome: outcome}, "")
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers.
// Handlers run synchronously on the publisher's goroutine and must not block.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe registers a handler for an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers handler for every type in types.
func SubscribeAll(bus Bus, types []Type, handler Handler) {
	for _, t := range types {
		bus.Subscribe(t, handler)
	}
}
