package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: сколько времени заняла обработка запроса
	RequestDuration *prometheus.HistogramVec

	// Traffic: общее кол-во запросов
	TotalRequests *prometheus.CounterVec

	// Errors: отказы авторизации и прочие 4xx/5xx
	DeniedTotal *prometheus.CounterVec

	// Saturation: заполненность буфера журнала активности (backpressure)
	ActivityBufferFill prometheus.GaugeFunc
}

// NewMetrics регистрирует метрики API. bufferFill — источник значения
// для гейджа очереди журнала (nil, если журнал выключен).
func NewMetrics(reg prometheus.Registerer, bufferFill func() int64) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if bufferFill == nil {
		bufferFill = func() int64 { return 0 }
	}

	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crm_request_duration_seconds",
			Help:    "Histogram of request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "status"}),

		TotalRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "crm_requests_total",
			Help: "Total number of processed requests.",
		}, []string{"method"}),

		DeniedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "crm_denied_total",
			Help: "Total number of rejected requests by status.",
		}, []string{"status"}), // 401, 403, 429

		ActivityBufferFill: promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
			Name: "crm_activity_buffer_utilization",
			Help: "Current number of events in activity buffer.",
		}, func() float64 { return float64(bufferFill()) }),
	}
}

// Middleware снимает latency/traffic с каждого запроса.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := strconv.Itoa(ww.Status())
		m.TotalRequests.WithLabelValues(r.Method).Inc()
		m.RequestDuration.WithLabelValues(r.Method, status).Observe(time.Since(start).Seconds())

		switch ww.Status() {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			m.DeniedTotal.WithLabelValues(status).Inc()
		}
	})
}
