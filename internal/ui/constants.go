package ui

// Event types broadcast for the presentation layer.
const (
	EventTypeInitialize  = "ui.initialize"
	EventTypeWin         = "ui.win"
	EventTypeVisibility  = "ui.visibility"
	EventTypePopup       = "ui.popup"
	EventTypePopupClosed = "ui.popup_closed"
	EventTypeBet         = "ui.bet"
	EventTypeHistory     = "ui.history"
)

// AllEventTypes lists every ui.* event type.
var AllEventTypes = []string{
	EventTypeInitialize,
	EventTypeWin,
	EventTypeVisibility,
	EventTypePopup,
	EventTypePopupClosed,
	EventTypeBet,
	EventTypeHistory,
}

// Message keys. English text doubles as the key.
const (
	msgNetworkError   = "The game server could not be reached. Check your connection and try again."
	msgAPIError       = "%s (code %s)"
	msgFreeRoundIntro = "You have %d free rounds at %s per spin."
	msgFreeRoundOutro = "Your free rounds paid %s."
	msgReplayEnd      = "Replay finished."
	msgWin            = "Win %s"
	msgBet            = "Bet %s"
	msgCredits        = "Credits %s"
)

// amountScale is the number of decimals shown for money.
const amountScale = 2
