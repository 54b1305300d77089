package port

import (
	"context"
	"io"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/spool"
)

// Spooler streams an upload into the scratch area while hashing it.
type Spooler interface {
	Spool(ctx context.Context, prefix []byte, r io.Reader) (*spool.Spooled, error)
	Discard(ctx context.Context, path string)
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

// ThumbnailGenerator reads media dimensions and renders thumbnails.
type ThumbnailGenerator interface {
	Probe(ctx context.Context, path, mime string) (width, height int, err error)
	Generate(ctx context.Context, src, mime, dst string) error
}

// IngestObserver records per-file ingestion results.
type IngestObserver interface {
	ObserveIngest(kind, outcome string, bytes int64, took time.Duration)
}
