package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stillup_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stillup_http_request_duration_seconds",
			Help:    "Histogram of response durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// GateDecisions counts auth gate outcomes
	GateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stillup_gate_decisions_total",
			Help: "Auth gate decisions by outcome",
		},
		[]string{"outcome"},
	)

	// SiteCheckStatus background check stats
	SiteCheckStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stillup_site_check_status_total",
			Help: "Number of site checks by resulting status",
		},
		[]string{"status"},
	)

	SiteCheckDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stillup_site_check_duration_seconds",
			Help:    "Duration of a single site probe",
			Buckets: prometheus.DefBuckets,
		},
	)

	StatusChanges = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stillup_status_changes_total",
			Help: "Number of checks that changed a site's status",
		},
	)

	LiveViews = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stillup_live_views",
			Help: "Number of mounted dashboard views",
		},
	)

	// DroppedEvents counts change events not delivered to a full subscriber
	DroppedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stillup_realtime_dropped_events_total",
			Help: "Change events dropped because a subscriber buffer was full",
		},
	)
)

// Init registers the web server collectors.
func Init() {
	prometheus.MustRegister(HTTPRequests, RequestDuration, GateDecisions, LiveViews, DroppedEvents)
}

// InitChecker registers the checker collectors.
func InitChecker() {
	prometheus.MustRegister(SiteCheckStatus, SiteCheckDuration, StatusChanges)
}
