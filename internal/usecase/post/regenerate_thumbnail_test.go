package post

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/fhuszti/booru-ms-go/internal/mock"
)

func TestRegenerateThumbnail_NotFound(t *testing.T) {
	svc := NewThumbnailRegenerator(&mock.MockPostRepo{GetErr: sql.ErrNoRows}, &mock.ContentStore{}, &mock.ThumbnailGenerator{}, &mock.MockDispatcher{})

	if err := svc.RegenerateThumbnail(context.Background(), 1); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestRegenerateThumbnail_OriginalMissing(t *testing.T) {
	p := samplePost()
	store := &mock.ContentStore{Missing: map[string]bool{p.ContentPath: true}}
	thumbs := &mock.ThumbnailGenerator{}
	svc := NewThumbnailRegenerator(&mock.MockPostRepo{PostRecord: p}, store, thumbs, &mock.MockDispatcher{})

	err := svc.RegenerateThumbnail(context.Background(), p.ID)
	if !errors.Is(err, ErrOriginalMissing) {
		t.Fatalf("expected ErrOriginalMissing, got %v", err)
	}
	if thumbs.GenerateCalled {
		t.Error("generator called without an original")
	}
}

func TestRegenerateThumbnail_Success(t *testing.T) {
	p := samplePost()
	store := &mock.ContentStore{Root: "/data"}
	thumbs := &mock.ThumbnailGenerator{}
	tasks := &mock.MockDispatcher{}
	svc := NewThumbnailRegenerator(&mock.MockPostRepo{PostRecord: p}, store, thumbs, tasks)

	if err := svc.RegenerateThumbnail(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if thumbs.GotSrc != "/data/"+p.ContentPath || thumbs.GotDst != "/data/"+p.ThumbnailPath {
		t.Errorf("generated %q -> %q", thumbs.GotSrc, thumbs.GotDst)
	}
	if thumbs.GotMIME != "video/webm" {
		t.Errorf("mime = %q; want video/webm", thumbs.GotMIME)
	}
	if len(tasks.ReplicateIDs) != 1 || tasks.ReplicateIDs[0] != p.ID {
		t.Errorf("replicate ids = %v", tasks.ReplicateIDs)
	}
}

func TestRegenerateThumbnail_GenerateError(t *testing.T) {
	thumbs := &mock.ThumbnailGenerator{GenerateErr: errors.New("ffmpeg crashed")}
	tasks := &mock.MockDispatcher{}
	svc := NewThumbnailRegenerator(&mock.MockPostRepo{PostRecord: samplePost()}, &mock.ContentStore{}, thumbs, tasks)

	if err := svc.RegenerateThumbnail(context.Background(), 7); err == nil {
		t.Fatal("expected error, got nil")
	}
	if tasks.ReplicateCalled {
		t.Error("replication enqueued after a failed regeneration")
	}
}
