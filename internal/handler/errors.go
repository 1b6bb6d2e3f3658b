package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgCoinValuePositive     = "coin_value must be positive"
	ErrMsgLimitsNotNegative     = "win_limit and loss_limit must not be negative"
)

// User-facing messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgSessionClosedError = "The game session has ended"
	ErrMsgSessionLoadingErr  = "The game session is still loading"
	ErrMsgTimeoutError       = "The game session did not respond in time"
	ErrMsgInvalidBetError    = "That bet is not offered"
	ErrMsgUnknownFeatureErr  = "Unknown feature"
	ErrMsgIntentAbsorbed     = "Not possible right now"
)

// Success messages
const (
	MsgIntentAccepted = "Accepted"
)

// Readiness states
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
)

// Log messages
const (
	LogMsgIntentDispatched = "Intent dispatched"
	LogMsgIntentFailed     = "Intent dispatch failed"
	LogMsgReadinessFailed  = "Readiness check failed"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
)
