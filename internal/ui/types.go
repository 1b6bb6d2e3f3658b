package ui

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/reelflow/internal/domain"
	"github.com/osse101/reelflow/internal/session"
)

// InitPayload is sent once the initial state is known.
type InitPayload struct {
	SessionID   string            `json:"session_id"`
	Options     session.UIOptions `json:"options"`
	CreditsText string            `json:"credits_text"`
	BetText     string            `json:"bet_text"`
}

// WinPayload asks the UI to present a current win.
type WinPayload struct {
	SessionID string          `json:"session_id"`
	Amount    decimal.Decimal `json:"amount"`
	Text      string          `json:"text"`
	Mode      domain.WinMode  `json:"mode"`
	TickupMS  int64           `json:"tickup_ms"`
	DelayMS   int64           `json:"delay_ms"`
}

// VisibilityPayload toggles one control.
type VisibilityPayload struct {
	SessionID string           `json:"session_id"`
	Element   domain.UIElement `json:"element"`
	Visible   bool             `json:"visible"`
}

// PopupPayload opens a popup.
type PopupPayload struct {
	SessionID string       `json:"session_id"`
	Popup     domain.Popup `json:"popup"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
}

// PopupClosedPayload closes the open popup.
type PopupClosedPayload struct {
	SessionID string `json:"session_id"`
}

// BetPayload corrects the bet shown by the UI.
type BetPayload struct {
	SessionID string          `json:"session_id"`
	Bet       domain.Bet      `json:"bet"`
	Amount    decimal.Decimal `json:"amount"`
	Text      string          `json:"text"`
}

// HistoryRow is one round of the history panel.
type HistoryRow struct {
	Record  domain.RoundRecord `json:"record"`
	BetText string             `json:"bet_text"`
	WinText string             `json:"win_text"`
}

// HistoryPayload answers a history request.
type HistoryPayload struct {
	SessionID string       `json:"session_id"`
	Rounds    []HistoryRow `json:"rounds"`
}
