package sse

// ConnectedPayload is the first message of every stream.
type ConnectedPayload struct {
	ClientID string   `json:"client_id"`
	Filters  []string `json:"filters,omitempty"`
}

// BusEventPayload wraps a session event forwarded from the bus.
type BusEventPayload struct {
	Version   string      `json:"version"`
	SessionID string      `json:"session_id,omitempty"`
	RoundID   string      `json:"round_id,omitempty"`
	Data      interface{} `json:"data"`
}
