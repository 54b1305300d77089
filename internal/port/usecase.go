package port

import (
	"context"
	"io"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/model"
)

// UploadFile is one file field of a multi-file submission, read once.
type UploadFile struct {
	Name string
	Body io.Reader
}

// UploadSource yields the files of a batch in arrival order and io.EOF
// after the last one.
type UploadSource interface {
	Next() (*UploadFile, error)
}

// IngestOutcome is the result for one file: a post id or a classified error.
type IngestOutcome struct {
	PostID int64
	Err    error
}

// Ingester runs the ingestion pipeline over a batch.
type Ingester interface {
	Ingest(ctx context.Context, caller model.Caller, src UploadSource) ([]IngestOutcome, error)
}

// PostGetter retrieves post information from the repository.
type PostGetter interface {
	GetPost(ctx context.Context, id int64) (*GetPostOutput, error)
}
type GetPostOutput struct {
	ValidUntil   time.Time       `json:"valid_until"`
	ID           int64           `json:"id"`
	Digest       string          `json:"digest"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	MediaKind    model.MediaKind `json:"media_kind"`
	ByteSize     int64           `json:"byte_size"`
	MediaURL     string          `json:"media_url"`
	ThumbnailURL string          `json:"thumbnail_url"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PostReplicator copies a post's original and thumbnail to the replica bucket.
type PostReplicator interface {
	ReplicatePost(ctx context.Context, id int64) error
}

// ThumbnailRegenerator renders a post's thumbnail again from its original.
type ThumbnailRegenerator interface {
	RegenerateThumbnail(ctx context.Context, id int64) error
}

// BacklogRepairer reconciles the catalog with the content tree.
type BacklogRepairer interface {
	RepairBacklog(ctx context.Context) error
}
