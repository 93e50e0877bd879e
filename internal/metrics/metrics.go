package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitbattle",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitbattle",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	measurementsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitbattle",
		Name:      "measurements_recorded_total",
		Help:      "Weight stats stored.",
	})
	battlesFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitbattle",
		Name:      "battles_finished_total",
		Help:      "Battles that reached the finished status, by battle type.",
	}, []string{"type"})
	eventPublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitbattle",
		Name:      "event_publish_failures_total",
		Help:      "Domain events that could not be published.",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, measurementsRecorded, battlesFinished, eventPublishFailures)
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func RecordMeasurement() {
	measurementsRecorded.Inc()
}

func RecordBattleFinished(battleType string) {
	battlesFinished.WithLabelValues(battleType).Inc()
}

func RecordPublishFailure(eventType string) {
	eventPublishFailures.WithLabelValues(eventType).Inc()
}
