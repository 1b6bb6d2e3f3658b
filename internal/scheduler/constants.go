package scheduler

// Log messages
const (
	LogMsgTimerCancelledOnStop = "Cancelled pending timer on stop"
)
