package history

import "time"

const (
	DefaultSize = 100
	DefaultTTL  = 24 * time.Hour
)

const (
	LogMsgUnexpectedPayload = "Ignoring round.completed event with unexpected payload"
	LogMsgRoundRecorded     = "Round recorded"
)
