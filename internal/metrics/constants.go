package metrics

import "time"

// ============================================================================
// Metric Names
// ============================================================================

// Namespace prefixes every reelflow metric.
const Namespace = "reelflow"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameHTTPRequestsRejected = "http_requests_rejected_total"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Game metric names
const (
	MetricNameRoundsStarted     = "rounds_started_total"
	MetricNameRoundsCompleted   = "rounds_completed_total"
	MetricNameSpinCycleDuration = "spin_cycle_duration_seconds"
	MetricNameServerRequests    = "server_requests_total"
	MetricNameServerLatency     = "server_request_duration_seconds"
	MetricNameForceStops        = "force_stops_total"
	MetricNameReelFaults        = "reel_faults_total"
	MetricNameTransitions       = "flow_transitions_total"
	MetricNameAutoplayStops     = "autoplay_stops_total"
	MetricNameSessionErrors     = "session_errors_total"
	MetricNameAmountWagered     = "amount_wagered_total"
	MetricNameAmountWon         = "amount_won_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextHTTPRequestsRejected = "Total number of HTTP requests rejected by the security middleware"
)

// Rejection reasons
const (
	RejectUnauthorized = "unauthorized"
	RejectRateLimited  = "rate_limited"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Game metric help text
const (
	HelpTextRoundsStarted     = "Total number of round requests sent to the game server"
	HelpTextRoundsCompleted   = "Total number of rounds settled"
	HelpTextSpinCycleDuration = "Time from round start until every reel stopped"
	HelpTextServerRequests    = "Total number of game server requests by outcome"
	HelpTextServerLatency     = "Game server request latency in seconds"
	HelpTextForceStops        = "Total number of forced reel stops"
	HelpTextReelFaults        = "Total number of reel operations that completed degraded"
	HelpTextTransitions       = "Total number of flow state transitions"
	HelpTextAutoplayStops     = "Total number of autoplay runs ended, by reason"
	HelpTextSessionErrors     = "Total number of error popups raised"
	HelpTextAmountWagered     = "Total stake of settled rounds"
	HelpTextAmountWon         = "Total win of settled rounds"
)

// ============================================================================
// Metric Label Names
// ============================================================================

const (
	LabelMethod        = "method"
	LabelPath          = "path"
	LabelStatus        = "status"
	LabelType          = "type"
	LabelGameMode      = "game_mode"
	LabelOutcome       = "outcome"
	LabelAfterStopData = "after_stop_data"
	LabelOp            = "op"
	LabelFrom          = "from"
	LabelTo            = "to"
	LabelReason        = "reason"
	LabelKind          = "kind"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// SpinCycleBuckets covers turbo stops through slow animated cycles.
var SpinCycleBuckets = []float64{.1, .25, .5, .75, 1, 1.5, 2, 3, 5, 10}

// ============================================================================
// Spin cycle tracking
// ============================================================================

// Rounds whose reels never stop are forgotten after cycleTTL.
const (
	cycleTrackSize = 256
	cycleTTL       = time.Minute
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgUnexpectedPayload = "Event payload has unexpected type"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
