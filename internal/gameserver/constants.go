package gameserver

import "time"

// Symbols of the stock strip
const (
	SymbolLemon   = "LEMON"
	SymbolCherry  = "CHERRY"
	SymbolBell    = "BELL"
	SymbolBar     = "BAR"
	SymbolSeven   = "SEVEN"
	SymbolDiamond = "DIAMOND"
	SymbolStar    = "STAR"
)

// Big-win thresholds as multiples of the total bet
const (
	BigWinThreshold  = 10
	MegaWinThreshold = 25
	EpicWinThreshold = 50
)

// Free spin awards
const (
	DefaultFreeSpinsAward     = 10
	DefaultFreeSpinsRetrigger = 5
	// MinScatters is the scatter count that triggers free spins.
	MinScatters = 3
	// MinLineCount is the shortest paying run on a line.
	MinLineCount = 3
)

const (
	DefaultStartingBalance = 1000
	DefaultClientTimeout   = 10 * time.Second
	maxResponseBytes       = 1 << 20
)

// API error codes
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnknownPath        = "UNKNOWN_PATH"
	CodeInvalidBet         = "INVALID_BET"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodeUnknownFeature     = "UNKNOWN_FEATURE"
	CodeFeatureUnavailable = "FEATURE_UNAVAILABLE"
	CodeNoFreeSpins        = "NO_FREE_SPINS"
	CodeUnknownFreeRound   = "UNKNOWN_FREE_ROUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternal           = "INTERNAL"
)

// Headers
const (
	HeaderContentType = "Content-Type"
	HeaderAPIKey      = "X-API-Key"
	ContentTypeJSON   = "application/json"
)

// Log messages
const (
	LogMsgRoundPlayed     = "Simulated round played"
	LogMsgRoundRejected   = "Simulated round rejected"
	LogMsgSessionOpened   = "Simulated session opened"
	LogMsgRequestFailed   = "Game server request failed"
	LogMsgUnexpectedReply = "Game server returned an unexpected status"
)
