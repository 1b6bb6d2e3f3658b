package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "reelflow_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new one
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingReelflow    = "Starting reelflow"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Game wiring
// =============================================================================

const (
	// GameServerClientTimeout caps one HTTP round trip to a remote game server.
	// The session applies its own request timeout on top.
	GameServerClientTimeout = 30 * time.Second
)

// Log messages for game wiring
const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgHistoryRecorderRegistered  = "History recorder registered"
	LogMsgSSESubscriberRegistered    = "SSE subscriber registered"
	LogMsgUsingSimulator             = "Using in-process game server simulator"
	LogMsgUsingRemoteServer          = "Using remote game server"
	LogMsgSessionCreated             = "Game session created"
	LogMsgLanguageFallback           = "Unsupported UI language, falling back"
)

// Errors
const (
	ErrMsgFailedCreateSimulator = "failed to create simulator"
	ErrMsgFailedCreateSession   = "failed to create session"
	ErrMsgFailedStartSession    = "failed to start session"
)

// =============================================================================
// Shutdown
// =============================================================================

const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgClosingSession       = "Closing game session"
	LogMsgSessionCloseFailed   = "Game session close failed"
	LogMsgStoppingEventStream  = "Stopping event stream hub"
	LogMsgServerStopped        = "Server stopped"
)
