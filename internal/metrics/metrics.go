package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics
var (
	IngestFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booru_ingest_files_total",
			Help: "Total number of uploaded files by outcome",
		},
		[]string{"outcome"}, // created, duplicate, rejected, failed
	)

	IngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booru_ingest_duration_seconds",
			Help:    "Time spent ingesting one file in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"kind"},
	)

	IngestBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booru_ingest_bytes_total",
			Help: "Total number of bytes spooled from uploads",
		},
		[]string{"kind"},
	)
)
