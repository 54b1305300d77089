// Package thumbnail turns a stored original into its WebP thumbnail:
// extract one frame, fit it into the bounding box, encode it.
package thumbnail

import (
	"context"

	"github.com/fhuszti/booru-ms-go/internal/port"
)

type Generator struct {
	extractor *Extractor
	encoder   *Encoder
	size      int
}

// compile-time check: *Generator must satisfy port.ThumbnailGenerator
var _ port.ThumbnailGenerator = (*Generator)(nil)

func NewGenerator(extractor *Extractor, encoder *Encoder, size int) *Generator {
	return &Generator{extractor: extractor, encoder: encoder, size: size}
}

func (g *Generator) Probe(ctx context.Context, path, mime string) (int, int, error) {
	return g.extractor.Probe(ctx, path, mime)
}

func (g *Generator) Generate(ctx context.Context, src, mime, dst string) error {
	x, err := g.extractor.Extract(ctx, src, mime)
	if err != nil {
		return err
	}
	return g.encoder.Encode(ctx, Scale(x.Frame, g.size), dst)
}
