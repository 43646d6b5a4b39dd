package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch metrics
var (
	// FetchesTotal tracks fetch attempts by source name and result status
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_fetches_total",
			Help: "Total data source fetch attempts by source and result status",
		},
		[]string{"source", "status"},
	)

	// FetchDuration tracks fetch latency in seconds
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_fetch_duration_seconds",
			Help:    "Data source fetch duration in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	// ConsecutiveFailures tracks the scheduler's current failure streak
	ConsecutiveFailures = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_consecutive_failures",
			Help: "Current number of consecutive fetch failures",
		},
	)

	// BackoffSeconds tracks the currently applied retry backoff delay
	BackoffSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_backoff_seconds",
			Help: "Retry backoff delay currently applied, in seconds",
		},
	)

	// BreakerState tracks the HTTP source circuit breaker state (0=closed, 1=half-open, 2=open)
	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_breaker_state",
			Help: "HTTP source circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// Render metrics
var (
	// FramesRendered tracks total frames presented to the surface
	FramesRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_frames_rendered_total",
			Help: "Total frames presented to the display surface",
		},
	)

	// TextUpdates tracks successful text replacements on the scroll engine
	TextUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_text_updates_total",
			Help: "Total successful text replacements on the scroll engine",
		},
	)

	// ScrollWraps tracks completed scroll cycles
	ScrollWraps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_scroll_wraps_total",
			Help: "Total completed scroll cycles (text wrapped back to the off-screen edge)",
		},
	)
)

// Stream metrics
var (
	// StreamClients tracks currently connected display stream clients
	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_stream_clients",
			Help: "Currently connected display stream WebSocket clients",
		},
	)

	// StreamFramesDropped tracks frames dropped for slow stream clients
	StreamFramesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_stream_frames_dropped_total",
			Help: "Frames dropped because a stream client could not keep up",
		},
	)
)
