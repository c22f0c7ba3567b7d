package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "datagen_"

	// ResultSuccess and ResultError label generation request outcomes.
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	generateRequests *prometheus.CounterVec
	generateLatency  *prometheus.HistogramVec

	recordsDelivered *prometheus.CounterVec
	recordsFailed    *prometheus.CounterVec
	deliveryLatency  *prometheus.HistogramVec
)

// Init registers the service metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		generateRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "generate_requests_total",
				Help: "Total generation requests by record kind and result",
			},
			[]string{"kind", "result"},
		)
		generateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "generate_latency_seconds",
				Help:    "Whole-request generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "result"},
		)
		recordsDelivered = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_delivered_total",
				Help: "Total records accepted by the pipeline by kind",
			},
			[]string{"kind"},
		)
		recordsFailed = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_failed_total",
				Help: "Total per-record delivery failures by kind",
			},
			[]string{"kind"},
		)
		deliveryLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "delivery_latency_seconds",
				Help:    "Single-record delivery latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "result"},
		)

		prometheus.MustRegister(
			generateRequests,
			generateLatency,
			recordsDelivered,
			recordsFailed,
			deliveryLatency,
		)
	})
}

// ObserveGenerate records one generation request.
func ObserveGenerate(kind, result string, elapsed time.Duration) {
	if generateRequests == nil {
		return
	}
	generateRequests.WithLabelValues(kind, result).Inc()
	generateLatency.WithLabelValues(kind, result).Observe(elapsed.Seconds())
}

// ObserveDelivery records one per-record delivery attempt.
func ObserveDelivery(kind string, delivered bool, elapsed time.Duration) {
	if recordsDelivered == nil {
		return
	}
	result := ResultSuccess
	if delivered {
		recordsDelivered.WithLabelValues(kind).Inc()
	} else {
		result = ResultError
		recordsFailed.WithLabelValues(kind).Inc()
	}
	deliveryLatency.WithLabelValues(kind, result).Observe(elapsed.Seconds())
}
