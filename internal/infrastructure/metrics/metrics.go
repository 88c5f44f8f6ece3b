package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tryon",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tryon",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path"})

	// Примерка
	Renders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tryon",
		Subsystem: "session",
		Name:      "renders_total",
		Help:      "Rendered try-on images by garment class, operation and outcome",
	}, []string{"class", "operation", "result"})

	GateRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tryon",
		Subsystem: "gate",
		Name:      "rejections_total",
		Help:      "Suitability gate rejections by reason",
	}, []string{"class", "reason"})

	CompositeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tryon",
		Subsystem: "compositor",
		Name:      "duration_seconds",
		Help:      "Time spent resizing and blending the garment",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"class"})

	LandmarkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tryon",
		Subsystem: "landmarks",
		Name:      "detect_duration_seconds",
		Help:      "Landmark provider latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tryon",
		Subsystem: "session",
		Name:      "active",
		Help:      "Try-on sessions currently held in memory",
	})

	SessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tryon",
		Subsystem: "session",
		Name:      "swept_total",
		Help:      "Sessions removed after idling longer than the TTL",
	})
)

// Middleware считает запросы и их длительность по шаблону маршрута
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler отдаёт /metrics для Prometheus
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
