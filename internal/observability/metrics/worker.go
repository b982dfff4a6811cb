package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medscope/textbook-qa/internal/core/domain"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	indexTotal      *prometheus.CounterVec
	indexDuration   *prometheus.HistogramVec
	indexInFlight   prometheus.Gauge
	queueLag        *prometheus.HistogramVec
	chunksPerDoc    *prometheus.HistogramVec
	chunkWordCounts *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	indexTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tqa",
			Subsystem: "worker",
			Name:      "document_index_total",
			Help:      "Total indexed documents by status.",
		},
		[]string{"service", "status"},
	)
	indexDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tqa",
			Subsystem: "worker",
			Name:      "document_index_duration_seconds",
			Help:      "Document index build duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	indexInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tqa",
			Subsystem: "worker",
			Name:      "document_index_in_flight",
			Help:      "Number of in-flight index builds.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tqa",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document upload and index build start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	chunksPerDoc := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tqa",
			Subsystem: "worker",
			Name:      "chunks_per_document",
			Help:      "Distribution of chunk counts per indexed document.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"service"},
	)
	chunkWordCounts := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tqa",
			Subsystem: "worker",
			Name:      "chunk_word_count",
			Help:      "Distribution of word counts across produced chunks.",
			Buckets:   []float64{25, 50, 100, 150, 200, 250, 300, 350, 400},
		},
		[]string{"service"},
	)

	registry.MustRegister(indexTotal, indexDuration, indexInFlight, queueLag, chunksPerDoc, chunkWordCounts)

	return &WorkerMetrics{
		registry:        registry,
		indexTotal:      indexTotal,
		indexDuration:   indexDuration,
		indexInFlight:   indexInFlight,
		queueLag:        queueLag,
		chunksPerDoc:    chunksPerDoc,
		chunkWordCounts: chunkWordCounts,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartIndexBuild() {
	m.indexInFlight.Inc()
}

func (m *WorkerMetrics) FinishIndexBuild(service string, duration time.Duration, err error) {
	m.indexInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.indexTotal.WithLabelValues(service, status).Inc()
	m.indexDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

// ObserveIndexSummary records chunk statistics after a successful build.
func (m *WorkerMetrics) ObserveIndexSummary(service string, summary domain.IndexSummary) {
	if summary.ChunkCount <= 0 {
		return
	}
	m.chunksPerDoc.WithLabelValues(service).Observe(float64(summary.ChunkCount))
	m.chunkWordCounts.WithLabelValues(service).Observe(summary.WordMean)
}
