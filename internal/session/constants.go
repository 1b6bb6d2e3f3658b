package session

import "time"

// Defaults
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultPoolWorkers    = 2
	DefaultPoolQueue      = 8
	DefaultHistoryLimit   = 20
	DefaultFeatureTime    = 1500 * time.Millisecond
	DefaultLineInterval   = 400 * time.Millisecond
)

// Request outcomes reported on request.completed
const (
	OutcomeResolved = "resolved"
	OutcomeRejected = "rejected"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgSessionStarted      = "Session started"
	LogMsgSessionClosed       = "Session closed"
	LogMsgStateChanged        = "Flow state changed"
	LogMsgIntentAbsorbed      = "Intent absorbed by current state"
	LogMsgRequestSent         = "Round request sent"
	LogMsgRequestResolved     = "Round request resolved"
	LogMsgRequestRejected     = "Round request rejected"
	LogMsgRequestDuplicate    = "Round request ignored, another is in flight"
	LogMsgRequestPanicked     = "Round request panicked"
	LogMsgMachineCallFailed   = "Machine call failed"
	LogMsgReelFault           = "Reel fault absorbed"
	LogMsgPublishFailed       = "Failed to publish session event"
	LogMsgFeatureMissing      = "No runner for feature, finishing immediately"
	LogMsgTeardownTimedOut    = "Session teardown timed out"
	LogMsgUnknownEffect       = "Unknown flow effect"
	LogMsgResponseInvalid     = "Round response rejected by adapter"
	LogMsgRequestAdaptFailed  = "Round request rejected by adapter"
	LogMsgRequestEnqueueError = "Round request could not be scheduled"
)
