package post

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/contentpath"
	"github.com/fhuszti/booru-ms-go/internal/mock"
	"github.com/fhuszti/booru-ms-go/internal/model"
)

func samplePost() *model.Post {
	d, _ := model.ParseDigest("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")
	return &model.Post{
		ID:            7,
		Digest:        d,
		Width:         640,
		Height:        480,
		MediaKind:     model.MediaKindVideo,
		ByteSize:      1234,
		ContentPath:   contentpath.Media(d, "webm"),
		ThumbnailPath: contentpath.Thumbnail(d),
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestGetPost_NotFound(t *testing.T) {
	repo := &mock.MockPostRepo{GetErr: sql.ErrNoRows}
	svc := NewPostGetter(repo, testCfg)

	_, err := svc.GetPost(context.Background(), 7)
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestGetPost_RepoError(t *testing.T) {
	repo := &mock.MockPostRepo{GetErr: errors.New("db fail")}
	svc := NewPostGetter(repo, testCfg)

	_, err := svc.GetPost(context.Background(), 7)
	if err == nil || err.Error() != "db fail" {
		t.Fatalf("expected db fail, got %v", err)
	}
}

func TestGetPost_Success(t *testing.T) {
	p := samplePost()
	repo := &mock.MockPostRepo{PostRecord: p}
	svc := NewPostGetter(repo, testCfg)

	out, err := svc.GetPost(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ID != 7 || out.Width != 640 || out.Height != 480 || out.MediaKind != model.MediaKindVideo {
		t.Errorf("unexpected output: %+v", out)
	}
	if out.Digest != p.Digest.String() {
		t.Errorf("digest = %q", out.Digest)
	}
	wantMedia := "/static/media/2c/f2/2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824.webm"
	if out.MediaURL != wantMedia {
		t.Errorf("media url = %q; want %q", out.MediaURL, wantMedia)
	}
	wantThumb := "/static/thumb/2c/f2/2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824.webp"
	if out.ThumbnailURL != wantThumb {
		t.Errorf("thumbnail url = %q; want %q", out.ThumbnailURL, wantThumb)
	}
	if !out.ValidUntil.After(time.Now()) {
		t.Errorf("valid until %v is not in the future", out.ValidUntil)
	}
}
