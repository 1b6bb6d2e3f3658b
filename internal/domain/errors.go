package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Machine errors
	ErrMsgMachineBusy             = "machine is busy"
	ErrMsgMachineDestroyed        = "machine has been destroyed"
	ErrMsgNotSpinning             = "machine is not spinning"
	ErrMsgStopDataAlreadyProvided = "stop data already provided for this cycle"
	ErrMsgInvalidReelIndex        = "invalid reel index"
	ErrMsgInvalidMachineOptions   = "invalid machine options"

	// Reel errors
	ErrMsgReelBusy      = "reel is busy"
	ErrMsgReelAnimation = "reel animation failed"

	// Round errors
	ErrMsgRequestInFlight   = "round request already in flight"
	ErrMsgInvalidResponse   = "invalid round response"
	ErrMsgInvalidBet        = "invalid bet"
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgUnknownFeature    = "unknown feature"
	ErrMsgUnknownPath       = "unknown request path"

	// Session errors
	ErrMsgSessionClosed  = "session is closed"
	ErrMsgSessionStarted = "session already started"
	ErrMsgSessionConfig  = "invalid session config"
	ErrMsgSessionLoading = "session has not loaded its initial state"

	// Transport errors
	ErrMsgServerUnavailable = "game server unavailable"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrMachineBusy             = errors.New(ErrMsgMachineBusy)
	ErrMachineDestroyed        = errors.New(ErrMsgMachineDestroyed)
	ErrNotSpinning             = errors.New(ErrMsgNotSpinning)
	ErrStopDataAlreadyProvided = errors.New(ErrMsgStopDataAlreadyProvided)
	ErrInvalidReelIndex        = errors.New(ErrMsgInvalidReelIndex)
	ErrInvalidMachineOptions   = errors.New(ErrMsgInvalidMachineOptions)

	ErrReelBusy      = errors.New(ErrMsgReelBusy)
	ErrReelAnimation = errors.New(ErrMsgReelAnimation)

	ErrRequestInFlight   = errors.New(ErrMsgRequestInFlight)
	ErrInvalidResponse   = errors.New(ErrMsgInvalidResponse)
	ErrInvalidBet        = errors.New(ErrMsgInvalidBet)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrUnknownFeature    = errors.New(ErrMsgUnknownFeature)
	ErrUnknownPath       = errors.New(ErrMsgUnknownPath)

	ErrSessionClosed  = errors.New(ErrMsgSessionClosed)
	ErrSessionStarted = errors.New(ErrMsgSessionStarted)
	ErrSessionConfig  = errors.New(ErrMsgSessionConfig)
	ErrSessionLoading = errors.New(ErrMsgSessionLoading)

	ErrServerUnavailable = errors.New(ErrMsgServerUnavailable)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// APIError is a structured rejection returned by the game server.
// Anything else coming back from a request is treated as a network failure.
type APIError struct {
	Status  int    `json:"status,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
