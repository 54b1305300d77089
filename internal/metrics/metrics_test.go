package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIngestObserver(t *testing.T) {
	created := testutil.ToFloat64(IngestFilesTotal.WithLabelValues("created"))
	rejected := testutil.ToFloat64(IngestFilesTotal.WithLabelValues("rejected"))
	imageBytes := testutil.ToFloat64(IngestBytesTotal.WithLabelValues("image"))

	o := NewIngestObserver()
	o.ObserveIngest("image", "created", 1024, 20*time.Millisecond)
	o.ObserveIngest("unknown", "rejected", 0, time.Millisecond)

	if got := testutil.ToFloat64(IngestFilesTotal.WithLabelValues("created")) - created; got != 1 {
		t.Errorf("created delta = %v; want 1", got)
	}
	if got := testutil.ToFloat64(IngestFilesTotal.WithLabelValues("rejected")) - rejected; got != 1 {
		t.Errorf("rejected delta = %v; want 1", got)
	}
	if got := testutil.ToFloat64(IngestBytesTotal.WithLabelValues("image")) - imageBytes; got != 1024 {
		t.Errorf("image bytes delta = %v; want 1024", got)
	}
	if n := testutil.CollectAndCount(IngestDuration, "booru_ingest_duration_seconds"); n < 2 {
		t.Errorf("duration series = %d; want at least 2", n)
	}
}
