package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	queryDecisionsTotal *prometheus.CounterVec
	queryBestScore      *prometheus.HistogramVec
	retrievalDuration   *prometheus.HistogramVec
	batchQuestions      *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tqa",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tqa",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tqa",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queryDecisionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tqa",
			Subsystem: "query",
			Name:      "decisions_total",
			Help:      "Relevance gate outcomes for answered questions.",
		},
		[]string{"service", "endpoint", "decision"},
	)
	queryBestScore := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tqa",
			Subsystem: "query",
			Name:      "best_score",
			Help:      "Distribution of top similarity scores per question.",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.35, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service", "endpoint"},
	)
	retrievalDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tqa",
			Subsystem: "query",
			Name:      "retrieval_duration_seconds",
			Help:      "End-to-end retrieval duration per question in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	batchQuestions := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tqa",
			Subsystem: "query",
			Name:      "batch_questions",
			Help:      "Distribution of question counts per batch request.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		queryDecisionsTotal,
		queryBestScore,
		retrievalDuration,
		batchQuestions,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		queryDecisionsTotal: queryDecisionsTotal,
		queryBestScore:      queryBestScore,
		retrievalDuration:   retrievalDuration,
		batchQuestions:      batchQuestions,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

// RecordQueryDecision tracks one answered question. decision is "accepted",
// "rejected" or "error".
func (m *HTTPServerMetrics) RecordQueryDecision(service, endpoint, decision string, duration time.Duration) {
	if decision == "" {
		decision = "unknown"
	}
	m.queryDecisionsTotal.WithLabelValues(service, endpoint, decision).Inc()
	m.retrievalDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())
}

// RecordBestScore observes the top similarity score for one question.
// Negative scores mean no result was retrieved and are skipped.
func (m *HTTPServerMetrics) RecordBestScore(service, endpoint string, score float64) {
	if score < 0 {
		return
	}
	m.queryBestScore.WithLabelValues(service, endpoint).Observe(score)
}

func (m *HTTPServerMetrics) RecordBatchSize(service string, questions int) {
	if questions <= 0 {
		return
	}
	m.batchQuestions.WithLabelValues(service).Observe(float64(questions))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
