package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nurse_triage"

// Metrics holds all application metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal        *prometheus.CounterVec
	CycleDuration      prometheus.Histogram
	CriticalActive     prometheus.Gauge
	PagesTotal         *prometheus.CounterVec
	Registrations      prometheus.Counter
	AdminLoginFailures prometheus.Counter
	NurseActions       *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all application metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Refresh and registration cycles by outcome",
		}, []string{"outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Time spent acquiring and processing one reading",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
		}),
		CriticalActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "critical_alert_active",
			Help:      "1 while the last presented reading is critical",
		}),
		PagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Pages sent to subscriptions by kind and result",
		}, []string{"kind", "result"}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "patient_registrations_total",
			Help:      "Successful patient registrations",
		}),
		AdminLoginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_login_failures_total",
			Help:      "Rejected admin password attempts",
		}),
		NurseActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nurse_actions_total",
			Help:      "Nurse actions recorded by type",
		}, []string{"action"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
		}, []string{"method", "path", "status"}),
	}

	m.registry.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.CriticalActive,
		m.PagesTotal,
		m.Registrations,
		m.AdminLoginFailures,
		m.NurseActions,
		m.RequestDuration,
	)
	return m
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCycle counts a finished cycle. Safe on a nil receiver.
func (m *Metrics) ObserveCycle(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CyclesTotal.WithLabelValues(outcome).Inc()
	m.CycleDuration.Observe(elapsed.Seconds())
}

// SetCritical flags whether the presented reading is critical.
func (m *Metrics) SetCritical(critical bool) {
	if m == nil {
		return
	}
	if critical {
		m.CriticalActive.Set(1)
	} else {
		m.CriticalActive.Set(0)
	}
}

// PageSent counts one delivery attempt.
func (m *Metrics) PageSent(kind, result string) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(kind, result).Inc()
}

// PatientRegistered counts a successful registration.
func (m *Metrics) PatientRegistered() {
	if m == nil {
		return
	}
	m.Registrations.Inc()
}

// AdminLoginFailed counts a rejected password.
func (m *Metrics) AdminLoginFailed() {
	if m == nil {
		return
	}
	m.AdminLoginFailures.Inc()
}

// NurseAction counts a recorded nurse action.
func (m *Metrics) NurseAction(action string) {
	if m == nil {
		return
	}
	m.NurseActions.WithLabelValues(action).Inc()
}

// Middleware records request durations by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
