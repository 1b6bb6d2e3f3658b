package flow

import "time"

// TimerName identifies a delayed transition. At most one timer per name is pending.
type TimerName string

const (
	TimerMinSpin  TimerName = "min_spin"
	TimerSettle   TimerName = "settle"
	TimerAutoplay TimerName = "autoplay"
	TimerFreeSpin TimerName = "free_spin"
)

// Delay defaults
const (
	DefaultMinSpinDuration = 800 * time.Millisecond
	DefaultSettleDelay     = 400 * time.Millisecond
	DefaultAutoplayDelay   = 300 * time.Millisecond
	DefaultFreeSpinDelay   = 500 * time.Millisecond
	DefaultTickupDuration  = time.Second
	FastTickupDuration     = 400 * time.Millisecond
)

// maxAlwaysSteps bounds the eventless transition fixed point.
const maxAlwaysSteps = 64

// StopReason explains why autoplay ended.
type StopReason string

const (
	StopReasonNone     StopReason = ""
	StopReasonDisabled StopReason = "disabled"
	StopReasonWinLimit StopReason = "win_limit"
	StopReasonLoss     StopReason = "loss_limit"
	StopReasonCount    StopReason = "count_exhausted"
	StopReasonFeature  StopReason = "feature_triggered"
	StopReasonUser     StopReason = "user"
	StopReasonError    StopReason = "error"
)

// Popup messages
const (
	MsgNetworkError   = "Connection to the game server failed. Please try again."
	MsgFreeRoundIntro = "You have been awarded free rounds."
	MsgFreeRoundOutro = "Your free rounds are complete."
	MsgReplayEnd      = "Replay finished."
	CodeNetworkError  = "NETWORK_ERROR"
)
