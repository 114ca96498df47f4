package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fb_leads_received_total",
			Help: "Leads recibidos por webhook, por resultado de la ingesta",
		},
		[]string{"result"},
	)

	leadsConsolidated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fb_leads_consolidated_total",
			Help: "Leads consolidados a registros, por resultado",
		},
		[]string{"result"},
	)

	graphAPIErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graph_api_errors_total",
			Help: "Errores hablando con el Graph API, por tipo de objeto",
		},
		[]string{"object"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordLeadReceived(result string) {
	leadsReceived.WithLabelValues(result).Inc()
}

func RecordLeadConsolidated(result string) {
	leadsConsolidated.WithLabelValues(result).Inc()
}

func RecordGraphAPIError(object string) {
	graphAPIErrors.WithLabelValues(object).Inc()
}
