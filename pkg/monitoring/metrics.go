package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics содержит счетчики HTTP и доменные метрики приложения.
// Все методы безопасны для nil-получателя: сервисы могут работать без метрик.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	QuizzesStarted   prometheus.Counter
	QuizzesCompleted prometheus.Counter
	AnswersSubmitted *prometheus.CounterVec
	QuizScores       prometheus.Histogram
	CacheRequests    *prometheus.CounterVec
	WSConnections    prometheus.Gauge
}

// New создает метрики на собственном реестре
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		QuizzesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_attempts_started_total",
			Help: "Number of started quiz attempts",
		}),
		QuizzesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_attempts_completed_total",
			Help: "Number of completed quiz attempts",
		}),
		AnswersSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_answers_submitted_total",
				Help: "Number of submitted answers by correctness",
			},
			[]string{"correct"},
		),
		QuizScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_score_percentage",
			Help:    "Distribution of completed attempt scores",
			Buckets: []float64{20, 40, 60, 75, 90, 100},
		}),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_cache_requests_total",
				Help: "Report cache lookups by result",
			},
			[]string{"report", "result"},
		),
		WSConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of open websocket connections",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDuration,
		m.QuizzesStarted,
		m.QuizzesCompleted,
		m.AnswersSubmitted,
		m.QuizScores,
		m.CacheRequests,
		m.WSConnections,
	)
	return m
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// MetricsMiddleware считает запросы и их длительность по шаблону маршрута
func (m *Metrics) MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// PrometheusHandler отдает метрики в формате Prometheus
func (m *Metrics) PrometheusHandler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// QuizStarted отмечает начало попытки
func (m *Metrics) QuizStarted() {
	if m == nil {
		return
	}
	m.QuizzesStarted.Inc()
}

// AnswerSubmitted отмечает принятый ответ
func (m *Metrics) AnswerSubmitted(correct bool) {
	if m == nil {
		return
	}
	m.AnswersSubmitted.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// QuizCompleted отмечает завершение попытки с итоговым процентом
func (m *Metrics) QuizCompleted(score float64) {
	if m == nil {
		return
	}
	m.QuizzesCompleted.Inc()
	m.QuizScores.Observe(score)
}

// CacheResult отмечает результат обращения к кешу отчета: hit, miss или error
func (m *Metrics) CacheResult(report, result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(report, result).Inc()
}

// WSConnected увеличивает число открытых websocket соединений
func (m *Metrics) WSConnected() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// WSDisconnected уменьшает число открытых websocket соединений
func (m *Metrics) WSDisconnected() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}
