package monitoring

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

var (
	AppointmentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointment_transitions_total",
			Help: "Appointment status changes by outcome",
		},
		[]string{"from", "to", "result"},
	)

	PaymentWebhooks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhooks_total",
			Help: "Payment notifications received by outcome",
		},
		[]string{"result"},
	)

	ChatConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_websocket_connections",
			Help: "Open chat websocket connections",
		},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AppointmentTransitions)
		prometheus.MustRegister(PaymentWebhooks)
		prometheus.MustRegister(ChatConnections)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
