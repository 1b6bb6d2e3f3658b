package domain

import "github.com/shopspring/decimal"

// PopupKind categorizes a popup the UI should show.
type PopupKind string

const (
	PopupAPIError       PopupKind = "api_error"
	PopupNetworkError   PopupKind = "network_error"
	PopupFreeRoundIntro PopupKind = "free_round_intro"
	PopupFreeRoundOutro PopupKind = "free_round_outro"
	PopupReplayEnd      PopupKind = "replay_end"
)

// PopupAction is a button offered by a popup.
type PopupAction string

const (
	PopupActionDismiss PopupAction = "dismiss"
	PopupActionRestore PopupAction = "restore"
	PopupActionAccept  PopupAction = "accept"
	PopupActionDecline PopupAction = "decline"
	PopupActionClose   PopupAction = "close"
)

// Popup is the descriptor of an open popup. The orchestrator only describes it; drawing is the UI's job.
type Popup struct {
	Kind    PopupKind       `json:"kind"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Count   int             `json:"count,omitempty"`
	Actions []PopupAction   `json:"actions"`
}

// IsError reports whether the popup describes a failed request.
func (p *Popup) IsError() bool {
	return p != nil && (p.Kind == PopupAPIError || p.Kind == PopupNetworkError)
}

// Clone returns a copy of the popup that shares nothing with p.
func (p *Popup) Clone() *Popup {
	if p == nil {
		return nil
	}
	out := *p
	out.Actions = append([]PopupAction(nil), p.Actions...)
	return &out
}
