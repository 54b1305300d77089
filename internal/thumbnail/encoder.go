package thumbnail

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"

	"github.com/fhuszti/booru-ms-go/internal/codec"
	"github.com/fhuszti/booru-ms-go/internal/logger"
)

type WebPEncoder interface {
	Encode(w io.Writer, img image.Image, quality float32) error
}

type chaiWebP struct{}

func NewWebPEncoder() WebPEncoder {
	return chaiWebP{}
}

func (chaiWebP) Encode(w io.Writer, img image.Image, quality float32) error {
	return webp.Encode(w, img, &webp.Options{Quality: quality})
}

type Encoder struct {
	webp    WebPEncoder
	quality float32
}

func NewEncoder(enc WebPEncoder, quality float32) *Encoder {
	return &Encoder{webp: enc, quality: quality}
}

// Encode writes f as a single-frame WebP at dst, creating parent
// directories. The file only appears at dst once it is complete.
func (e *Encoder) Encode(ctx context.Context, f codec.Frame, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("thumbnail: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".thumb-*")
	if err != nil {
		return fmt.Errorf("thumbnail: create temp file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			logger.Warnf(ctx, "failed to remove temp thumbnail %q: %v", tmp.Name(), err)
		}
	}()

	if err := e.webp.Encode(tmp, f.Image, e.quality); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("thumbnail: encode webp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("thumbnail: flush: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("thumbnail: finalise %s: %w", dst, err)
	}
	return nil
}
