package post

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/codec"
	"github.com/fhuszti/booru-ms-go/internal/contentpath"
	"github.com/fhuszti/booru-ms-go/internal/logger"
	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/sniffer"
	"github.com/fhuszti/booru-ms-go/internal/spool"
	"github.com/fhuszti/booru-ms-go/internal/thumbnail"
)

type ingesterSrv struct {
	access   port.AccessControl
	repo     port.PostRepository
	spooler  port.Spooler
	store    port.ContentStore
	thumbs   port.ThumbnailGenerator
	tasks    port.TaskDispatcher
	observer port.IngestObserver
	cfg      Config
}

// compile-time check: *ingesterSrv must satisfy port.Ingester
var _ port.Ingester = (*ingesterSrv)(nil)

// NewIngester constructs an Ingester implementation.
func NewIngester(
	cfg Config,
	access port.AccessControl,
	repo port.PostRepository,
	spooler port.Spooler,
	store port.ContentStore,
	thumbs port.ThumbnailGenerator,
	tasks port.TaskDispatcher,
	observer port.IngestObserver,
) (port.Ingester, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ingestion config: %w", err)
	}
	return &ingesterSrv{access, repo, spooler, store, thumbs, tasks, observer, cfg}, nil
}

// Ingest checks the create permission once, then runs every file of the
// batch through the pipeline in arrival order. A file's failure is recorded
// in its outcome and does not stop the batch; the returned error is only
// set for failures that concern the batch as a whole.
func (s *ingesterSrv) Ingest(ctx context.Context, caller model.Caller, src port.UploadSource) ([]port.IngestOutcome, error) {
	ok, err := s.access.Can(ctx, caller, model.OperationCreate, model.ResourcePosts)
	if err != nil {
		return nil, fmt.Errorf("permission check: %w", err)
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	var outcomes []port.IngestOutcome
	for {
		f, err := src.Next()
		if errors.Is(err, io.EOF) {
			return outcomes, nil
		}
		if err != nil {
			return outcomes, classifyRead(err)
		}

		id, err := s.ingestOne(ctx, caller, f)
		outcomes = append(outcomes, port.IngestOutcome{PostID: id, Err: err})
	}
}

func (s *ingesterSrv) ingestOne(ctx context.Context, caller model.Caller, f *port.UploadFile) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FileTimeout)
	defer cancel()

	start := time.Now()
	res := s.process(ctx, caller, f)
	s.observer.ObserveIngest(res.kind, outcomeLabel(res.err), res.size, time.Since(start))

	switch {
	case res.err == nil:
		logger.Infof(ctx, "✅  Ingested %q as post #%d", f.Name, res.id)
	case IsClientError(res.err):
		logger.Warnf(ctx, "⚠️  Rejected %q: %v", f.Name, res.err)
	default:
		logger.Errorf(ctx, "❌  Failed to ingest %q: %v", f.Name, res.err)
	}
	return res.id, res.err
}

type result struct {
	id   int64
	kind string
	size int64
	err  error
}

func (s *ingesterSrv) process(ctx context.Context, caller model.Caller, f *port.UploadFile) result {
	res := result{kind: "unknown"}
	fail := func(err error) result {
		res.err = err
		return res
	}

	prefix := make([]byte, sniffer.PrefixLen)
	n, err := io.ReadFull(f.Body, prefix)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fail(classifyRead(err))
	}
	prefix = prefix[:n]

	format, err := sniffer.Sniff(prefix)
	if err != nil {
		var ute *sniffer.UnsupportedTypeError
		if errors.As(err, &ute) {
			return fail(&UnsupportedMediaTypeError{Detected: ute.Detected})
		}
		if errors.Is(err, sniffer.ErrEmptyFile) {
			return fail(ErrEmptyFile)
		}
		return fail(err)
	}
	res.kind = string(format.Kind)

	sp, err := s.spooler.Spool(ctx, prefix, f.Body)
	if err != nil {
		if errors.Is(err, spool.ErrTooLarge) {
			return fail(fmt.Errorf("%w: %v", ErrContentTooLarge, err))
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			// the client stopped sending mid-part
			return fail(fmt.Errorf("%w: %v", ErrMalformedUpload, err))
		}
		return fail(fmt.Errorf("spool upload: %w", err))
	}
	res.size = sp.Size
	// once placed, the spool file is gone and this is a no-op
	defer s.spooler.Discard(context.WithoutCancel(ctx), sp.Path)

	width, height, err := s.thumbs.Probe(ctx, sp.Path, format.MIME)
	if err != nil {
		return fail(decodeErr(format, err))
	}
	// headers are cheap to forge; refuse before anything is decoded or stored
	if int64(width)*int64(height) > s.cfg.MaxPixels {
		return fail(&UnsupportedMediaTypeError{Detected: format.MIME, Reason: fmt.Sprintf("dimensions too large: %dx%d", width, height)})
	}

	p := &model.Post{
		UploaderID:    caller.UserID,
		Digest:        sp.Digest,
		Width:         width,
		Height:        height,
		MediaKind:     format.Kind,
		ByteSize:      sp.Size,
		ContentPath:   contentpath.Media(sp.Digest, format.Ext),
		ThumbnailPath: contentpath.Thumbnail(sp.Digest),
	}

	// the unique digest constraint decides duplicates, before the content
	// tree is touched
	id, err := s.repo.Create(ctx, p)
	if errors.Is(err, ErrDuplicatePost) {
		return fail(fmt.Errorf("%w: %s", ErrDuplicatePost, sp.Digest))
	}
	if err != nil {
		return fail(fmt.Errorf("insert post: %w", err))
	}
	p.ID = id

	if err := s.store.Place(ctx, sp.Path, p.ContentPath); err != nil {
		s.rollback(ctx, p, false)
		return fail(fmt.Errorf("place original: %w", err))
	}

	if err := s.thumbs.Generate(ctx, s.store.Path(p.ContentPath), format.MIME, s.store.Path(p.ThumbnailPath)); err != nil {
		s.rollback(ctx, p, true)
		return fail(decodeErr(format, err))
	}

	if err := s.tasks.EnqueueReplicatePost(ctx, id); err != nil {
		logger.Warnf(ctx, "failed to enqueue replicate task for post #%d: %v", id, err)
	}

	res.id = id
	return res
}

// rollback undoes a half-committed post so that no row outlives its files.
// If this fails too, the repair-backlog command picks the row up later.
func (s *ingesterSrv) rollback(ctx context.Context, p *model.Post, placed bool) {
	ctx = context.WithoutCancel(ctx)
	logger.Errorf(ctx, "❌  Rolling back post #%d (%s) after a failed commit", p.ID, p.Digest)

	if placed {
		for _, key := range []string{p.ThumbnailPath, p.ContentPath} {
			if err := s.store.Remove(ctx, key); err != nil {
				logger.Errorf(ctx, "❌  Failed to remove %q for post #%d: %v", key, p.ID, err)
			}
		}
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		logger.Errorf(ctx, "❌  Post #%d has no backing files and could not be deleted: %v", p.ID, err)
	}
}

func decodeErr(format sniffer.Format, err error) error {
	switch {
	case errors.Is(err, thumbnail.ErrNoFrame):
		return &UnsupportedMediaTypeError{Detected: format.MIME, Reason: "no decodable frame"}
	case errors.Is(err, codec.ErrNoVideoStream):
		return &UnsupportedMediaTypeError{Detected: format.MIME, Reason: "no video stream"}
	case errors.Is(err, codec.ErrTooManyPixels):
		return &UnsupportedMediaTypeError{Detected: format.MIME, Reason: "dimensions too large"}
	case errors.Is(err, codec.ErrCorrupt):
		return &UnsupportedMediaTypeError{Detected: format.MIME, Reason: "corrupt data"}
	default:
		return fmt.Errorf("decode %s: %w", format.MIME, err)
	}
}

func classifyRead(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return fmt.Errorf("%w: limit is %d bytes", ErrContentTooLarge, mbe.Limit)
	}
	return fmt.Errorf("%w: %v", ErrMalformedUpload, err)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, ErrDuplicatePost):
		return "duplicate"
	case IsClientError(err):
		return "rejected"
	default:
		return "failed"
	}
}
