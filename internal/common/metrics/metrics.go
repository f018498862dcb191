// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of jobs currently being handled per worker",
		},
		[]string{"task_type"},
	)

	MRZDecodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_mrz_decodes_total",
			Help: "MRZ decode attempts by detected layout and checksum outcome",
		},
		[]string{"layout", "checksum_valid"},
	)

	VerificationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_verification_decisions_total",
			Help: "Verification outcomes by routing decision",
		},
		[]string{"decision"},
	)

	OverallConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_verification_confidence",
			Help:    "Overall extraction confidence of completed verifications",
			Buckets: []float64{50, 60, 70, 80, 90, 95, 100},
		},
	)

	OCRCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_ocr_cache_lookups_total",
			Help: "OCR text cache lookups by result",
		},
		[]string{"result"},
	)
)
