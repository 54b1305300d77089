package metrics

import (
	"time"

	"github.com/fhuszti/booru-ms-go/internal/port"
)

// ingestObserver implements port.IngestObserver using the Prometheus
// metrics declared in this package.
type ingestObserver struct{}

func NewIngestObserver() port.IngestObserver {
	return &ingestObserver{}
}

func (o *ingestObserver) ObserveIngest(kind, outcome string, bytes int64, took time.Duration) {
	IngestFilesTotal.WithLabelValues(outcome).Inc()
	IngestDuration.WithLabelValues(kind).Observe(took.Seconds())
	if bytes > 0 {
		IngestBytesTotal.WithLabelValues(kind).Add(float64(bytes))
	}
}
