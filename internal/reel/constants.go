package reel

import "time"

// State is a reel lifecycle state.
type State string

// Reel states
const (
	StateIdle      State = "idle"
	StateSpinning  State = "spinning"
	StateStopping  State = "stopping"
	StateNudging   State = "nudging"
	StateCascading State = "cascading"
	StateError     State = "error"
)

// FSM event names
const (
	eventSpin    = "spin"
	eventStop    = "stop"
	eventLand    = "land"
	eventNudge   = "nudge"
	eventCascade = "cascade"
	eventSettle  = "settle"
	eventFail    = "fail"
	eventRecover = "recover"
)

// Operation names used in errors and logs
const (
	OpSpin    = "spin"
	OpStop    = "stop"
	OpNudge   = "nudge"
	OpCascade = "cascade"
)

// Default animation timings for TimedAnimator
const (
	DefaultSpinUpDuration     = 150 * time.Millisecond
	DefaultStopDuration       = 300 * time.Millisecond
	DefaultForcedStopDuration = 50 * time.Millisecond
	DefaultNudgeStepDuration  = 120 * time.Millisecond
	DefaultCascadeDuration    = 250 * time.Millisecond
)

// Log messages
const (
	LogMsgStopWhileNotSpinning = "Reel stop requested while not spinning"
	LogMsgReelOpRejected       = "Reel operation rejected"
	LogMsgReelOpFailed         = "Reel operation failed"
	LogMsgReelTransitionFailed = "Reel state transition failed"
	LogMsgForceStopIgnored     = "Reel force stop ignored"
)
