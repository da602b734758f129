package promobserver

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xmidt-org/httphook"
)

// Config describes how the Prometheus metrics are named.
type Config struct {
	// Namespace is the optional metric namespace, e.g. the application name.
	Namespace string

	// Subsystem is the optional metric subsystem.  If unset, "http" is used.
	Subsystem string

	// DurationBuckets are the histogram buckets, in seconds, for request durations.
	// If unset, prometheus.DefBuckets is used.
	DurationBuckets []float64

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels
}

// Observer is an httphook.Observer that records request metrics with Prometheus
// client instruments.  It is also a prometheus.Collector, so it can be registered
// with any prometheus.Registerer.
type Observer struct {
	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bodySize prometheus.Histogram
}

var (
	_ httphook.Observer    = (*Observer)(nil)
	_ prometheus.Collector = (*Observer)(nil)
)

// New creates an Observer.  The returned Observer is not registered anywhere.
func New(cfg Config) *Observer {
	subsystem := cfg.Subsystem
	if len(subsystem) == 0 {
		subsystem = "http"
	}

	buckets := cfg.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	labels := []string{"method", "code"}
	return &Observer{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   subsystem,
			Name:        "requests_in_flight",
			Help:        "Number of requests currently being served",
			ConstLabels: cfg.ConstLabels,
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   subsystem,
			Name:        "requests_total",
			Help:        "Total number of requests served",
			ConstLabels: cfg.ConstLabels,
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   subsystem,
			Name:        "request_duration_seconds",
			Help:        "Time taken to serve a request",
			Buckets:     buckets,
			ConstLabels: cfg.ConstLabels,
		}, labels),
		bodySize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   subsystem,
			Name:        "request_body_bytes",
			Help:        "Size of request bodies",
			Buckets:     prometheus.ExponentialBuckets(64, 4, 8),
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// Describe sends the descriptors of all of this observer's metrics.
func (o *Observer) Describe(ch chan<- *prometheus.Desc) {
	o.inFlight.Describe(ch)
	o.requests.Describe(ch)
	o.duration.Describe(ch)
	o.bodySize.Describe(ch)
}

// Collect sends the current values of all of this observer's metrics.
func (o *Observer) Collect(ch chan<- prometheus.Metric) {
	o.inFlight.Collect(ch)
	o.requests.Collect(ch)
	o.duration.Collect(ch)
	o.bodySize.Collect(ch)
}

// OnRequestStarted increments the in-flight gauge and records the body size.
func (o *Observer) OnRequestStarted(d httphook.StartData) {
	o.inFlight.Inc()
	o.bodySize.Observe(float64(len(d.Body)))
}

// OnRequestEnded decrements the in-flight gauge and records the outcome.
func (o *Observer) OnRequestEnded(d httphook.EndData) {
	o.inFlight.Dec()

	code := strconv.Itoa(d.StatusCode)
	o.requests.WithLabelValues(d.Method, code).Inc()
	o.duration.WithLabelValues(d.Method, code).Observe(d.Elapsed.Seconds())
}
