package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgServerStopping   = "Server stopping"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// QueryParamAPIKey authenticates event streams, since EventSource cannot set headers.
const QueryParamAPIKey = "api_key"

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Limits
const (
	MaxRequestBytes    = 1 << 20
	RateWindow         = 5 * time.Minute
	RateLimitPerWindow = 1000
	FailedAuthAlertAt  = 5
	ReadHeaderTimeout  = 5 * time.Second
)

// Route paths
const (
	PathHealthz   = "/healthz"
	PathReadyz    = "/readyz"
	PathVersion   = "/version"
	PathMetrics   = "/metrics"
	PathAPI       = "/api/v1"
	PathEvents    = "/api/v1/events"
	PathSimulator = "/sim"
)

// Public path prefixes that bypass authentication
var PublicPaths = []string{
	PathHealthz,
	PathReadyz,
	PathMetrics,
	PathVersion,
}

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)
