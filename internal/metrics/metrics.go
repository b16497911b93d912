// Package metrics содержит метрики Prometheus для редиректора
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shorty"

// Metrics хранит все метрики сервиса
type Metrics struct {
	Resolutions        *prometheus.CounterVec
	QuotationFallbacks *prometheus.CounterVec
	QRFailures         prometheus.Counter
	RequestDuration    *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New регистрирует метрики в переданном реестре
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Request outcomes by kind (empty, blocked, found, redirect, not_found, faulted).",
		}, []string{"outcome"}),
		QuotationFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotation_fallbacks_total",
			Help:      "Hardcoded quotation served instead of a stored one, by reason.",
		}, []string{"reason"}),
		QRFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_encode_failures_total",
			Help:      "QR images omitted because encoding failed.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
		gatherer: reg,
	}
	reg.MustRegister(m.Resolutions, m.QuotationFallbacks, m.QRFailures, m.RequestDuration)
	return m
}

// ObserveOutcome увеличивает счётчик исходов; безопасно вызывать на nil
func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(outcome).Inc()
}

// ObserveQuotationFallback учитывает показ запасной цитаты
func (m *Metrics) ObserveQuotationFallback(reason string) {
	if m == nil {
		return
	}
	m.QuotationFallbacks.WithLabelValues(reason).Inc()
}

// ObserveQRFailure учитывает пропущенное изображение QR-кода
func (m *Metrics) ObserveQRFailure() {
	if m == nil {
		return
	}
	m.QRFailures.Inc()
}

// Handler возвращает обработчик /-/metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
