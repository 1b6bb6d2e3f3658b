package machine

import "time"

// Operation names
const (
	OpSpin            = "spin"
	OpStop            = "stop"
	OpProvideStopData = "provide_stop_data"
	OpForceStop       = "force_stop"
	OpRefresh         = "refresh"
	OpNudge           = "nudge"
	OpCascade         = "cascade"
	OpSetOptions      = "set_options"
	OpAddReel         = "add_reel"
	OpRemoveReel      = "remove_reel"
)

// Option limits
const (
	MaxReels = 12
	MaxRows  = 10
)

// Default option values
const (
	DefaultReels        = 5
	DefaultRows         = 3
	DefaultSpinDelay    = 100 * time.Millisecond
	DefaultStopDelay    = 200 * time.Millisecond
	DefaultStopDuration = 300 * time.Millisecond
	DefaultCascadeDelay = 80 * time.Millisecond
)

// Log messages
const (
	LogMsgOpRejected           = "Machine operation rejected"
	LogMsgStopDataIgnored      = "Stop data ignored"
	LogMsgStopDataSizeMismatch = "Stop data reel count does not match machine"
	LogMsgForceStopIgnored     = "Force stop ignored"
	LogMsgForceStop            = "Force stopping reels"
	LogMsgCycleFinalized       = "All reels stopped"
	LogMsgReelFault            = "Reel fault absorbed"
	LogMsgReconfigured         = "Machine reconfigured"
	LogMsgDestroyed            = "Machine destroyed"
)
