package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// UpstreamRequestsTotal counts calls made to the fuel-wallet API
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terminal_upstream_requests_total",
			Help: "Total requests sent to the fuel-wallet API",
		},
		[]string{"endpoint", "status"},
	)

	// UpstreamRequestDuration tracks upstream call latency
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "terminal_upstream_request_duration_seconds",
			Help:    "Duration of fuel-wallet API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// WorkflowCompletions counts finished purchase/dispense workflows
	WorkflowCompletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terminal_workflow_completions_total",
			Help: "Completed purchase/dispense workflows by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(UpstreamRequestsTotal, UpstreamRequestDuration, WorkflowCompletions)
}

// ObserveUpstreamRequest records one upstream API call. A status of 0 means
// the request never produced a response (transport error).
func ObserveUpstreamRequest(endpoint string, status int, d time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}
