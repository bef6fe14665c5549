package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pulsewatch"

// Metrics owns a private registry so tests can build as many as they like.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	checksTotal     *prometheus.CounterVec
	probeLatency    *prometheus.HistogramVec
	alertTriggers   *prometheus.CounterVec
	alertsThrottled prometheus.Counter
	channelSends    *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.checksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Completed endpoint checks by outcome.",
		},
		[]string{"outcome"},
	)

	m.probeLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_latency_seconds",
			Help:      "Recorded probe latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	m.alertTriggers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_triggers_total",
			Help:      "Alert rules that fired, by condition.",
		},
		[]string{"condition"},
	)

	m.alertsThrottled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_notifications_throttled_total",
			Help:      "Notifications suppressed by the per-rule cooldown.",
		},
	)

	m.channelSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channel_sends_total",
			Help:      "Notification channel deliveries by type and result.",
		},
		[]string{"type", "success"},
	)

	m.jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_job_runs_total",
			Help:      "Scheduled job executions by job and status.",
		},
		[]string{"job", "status"},
	)

	m.requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.checksTotal,
		m.probeLatency,
		m.alertTriggers,
		m.alertsThrottled,
		m.channelSends,
		m.jobRuns,
		m.requestLatency,
	)

	return m
}

func (m *Metrics) ObserveCheck(outcome string, latency time.Duration) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(outcome).Inc()
	m.probeLatency.WithLabelValues(outcome).Observe(latency.Seconds())
}

func (m *Metrics) IncAlertTrigger(condition string) {
	if m == nil {
		return
	}
	m.alertTriggers.WithLabelValues(condition).Inc()
}

func (m *Metrics) IncThrottled() {
	if m == nil {
		return
	}
	m.alertsThrottled.Inc()
}

func (m *Metrics) ObserveChannelSend(channelType string, ok bool) {
	if m == nil {
		return
	}
	m.channelSends.WithLabelValues(channelType, strconv.FormatBool(ok)).Inc()
}

func (m *Metrics) IncJobRun(job, status string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job, status).Inc()
}

// Observe satisfies the HTTP metrics middleware recorder.
func (m *Metrics) Observe(method, path string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
