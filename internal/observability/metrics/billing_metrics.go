package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels attached to every metric.
type Config struct {
	ServiceName string
	Environment string
}

// BillingMetrics tracks subscription lifecycle run outcomes.
type BillingMetrics struct {
	runDuration  prometheus.Histogram
	transitions  *prometheus.CounterVec
	emailsSent   *prometheus.CounterVec
	runErrors    *prometheus.CounterVec
	lastRunEpoch prometheus.Gauge
}

var (
	billingMetricsOnce sync.Once
	billingMetrics     *BillingMetrics
)

// BillingWithConfig returns the process-wide billing metrics. The first call
// registers the collectors; later configs are ignored.
func BillingWithConfig(cfg Config) *BillingMetrics {
	billingMetricsOnce.Do(func() {
		billingMetrics = newBillingMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return billingMetrics
}

func newBillingMetrics(registerer prometheus.Registerer, cfg Config) *BillingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "motosub"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "motosub_billing_run_duration_seconds",
		Help:        "Duration of one subscription lifecycle run.",
		Buckets:     []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		ConstLabels: constLabels,
	})

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "motosub_billing_transitions_total",
		Help:        "Subscription status transitions applied by lifecycle runs.",
		ConstLabels: constLabels,
	}, []string{"to_status"})

	emailsSent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "motosub_billing_emails_total",
		Help:        "Outbound billing notification emails by template and outcome.",
		ConstLabels: constLabels,
	}, []string{"template", "outcome"})

	runErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "motosub_billing_run_errors_total",
		Help:        "Soft errors recorded during lifecycle runs, by phase.",
		ConstLabels: constLabels,
	}, []string{"phase"})

	lastRunEpoch := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "motosub_billing_last_run_timestamp_seconds",
		Help:        "Unix time of the most recent completed lifecycle run.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(runDuration, transitions, emailsSent, runErrors, lastRunEpoch)

	return &BillingMetrics{
		runDuration:  runDuration,
		transitions:  transitions,
		emailsSent:   emailsSent,
		runErrors:    runErrors,
		lastRunEpoch: lastRunEpoch,
	}
}

func (m *BillingMetrics) ObserveRun(duration time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(duration.Seconds())
	m.lastRunEpoch.SetToCurrentTime()
}

func (m *BillingMetrics) AddTransitions(toStatus string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.transitions.WithLabelValues(toStatus).Add(float64(count))
}

func (m *BillingMetrics) AddEmail(template, outcome string) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(template, outcome).Inc()
}

func (m *BillingMetrics) AddRunError(phase string) {
	if m == nil {
		return
	}
	m.runErrors.WithLabelValues(phase).Inc()
}
