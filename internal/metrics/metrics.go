package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsTotal,
			Help:      HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestDuration,
			Help:      HelpTextHTTPRequestDuration,
			Buckets:   HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsInFlight,
			Help:      HelpTextHTTPRequestsInFlight,
		},
	)

	HTTPRequestsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameHTTPRequestsRejected,
			Help:      HelpTextHTTPRequestsRejected,
		},
		[]string{LabelReason},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventsPublished,
			Help:      HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameEventHandlerErrors,
			Help:      HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Game Metrics
var (
	RoundsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameRoundsStarted,
			Help:      HelpTextRoundsStarted,
		},
		[]string{LabelPath, LabelGameMode},
	)

	RoundsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameRoundsCompleted,
			Help:      HelpTextRoundsCompleted,
		},
		[]string{LabelGameMode},
	)

	SpinCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameSpinCycleDuration,
			Help:      HelpTextSpinCycleDuration,
			Buckets:   SpinCycleBuckets,
		},
	)

	ServerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameServerRequests,
			Help:      HelpTextServerRequests,
		},
		[]string{LabelPath, LabelOutcome},
	)

	ServerLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNameServerLatency,
			Help:      HelpTextServerLatency,
			Buckets:   HTTPLatencyBuckets,
		},
		[]string{LabelPath},
	)

	ForceStops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameForceStops,
			Help:      HelpTextForceStops,
		},
		[]string{LabelAfterStopData},
	)

	ReelFaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameReelFaults,
			Help:      HelpTextReelFaults,
		},
		[]string{LabelOp},
	)

	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameTransitions,
			Help:      HelpTextTransitions,
		},
		[]string{LabelFrom, LabelTo},
	)

	AutoplayStops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameAutoplayStops,
			Help:      HelpTextAutoplayStops,
		},
		[]string{LabelReason},
	)

	SessionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameSessionErrors,
			Help:      HelpTextSessionErrors,
		},
		[]string{LabelKind},
	)

	AmountWagered = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameAmountWagered,
			Help:      HelpTextAmountWagered,
		},
	)

	AmountWon = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameAmountWon,
			Help:      HelpTextAmountWon,
		},
	)
)
