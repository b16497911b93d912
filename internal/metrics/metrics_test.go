package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveOutcome("found")
	m.ObserveOutcome("found")
	m.ObserveQuotationFallback("empty")
	m.ObserveQRFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuotationFallbacks.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QRFailures))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveOutcome("found")
		m.ObserveQuotationFallback("error")
		m.ObserveQRFailure()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveOutcome("not_found")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `shorty_resolutions_total{outcome="not_found"} 1`)
}
