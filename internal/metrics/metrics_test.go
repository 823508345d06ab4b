package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_HandlerExposesCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	m.CyclesTotal.WithLabelValues("stable").Inc()
	m.CriticalActive.Set(1)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `nurse_triage_cycles_total{outcome="stable"} 1`)
	assert.Contains(t, w.Body.String(), "nurse_triage_critical_alert_active 1")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Registrations.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.Registrations))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.Registrations))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCycle("stable", 0)
		m.SetCritical(true)
		m.PageSent("physician", "sent")
		m.PatientRegistered()
		m.AdminLoginFailed()
		m.NurseAction("confirm")
	})
}

func TestMetrics_SetCritical(t *testing.T) {
	m := New()
	m.SetCritical(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CriticalActive))
	m.SetCritical(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.CriticalActive))
}
