package thumbnail

import (
	"math"

	"github.com/disintegration/imaging"

	"github.com/fhuszti/booru-ms-go/internal/codec"
)

// Fit returns the size of a w×h picture fitted inside target×target. The
// ratio is min(target/w, target/h), never above 1, and each side is at
// least one pixel.
func Fit(w, h, target int) (int, int) {
	if w <= 0 || h <= 0 || target <= 0 {
		return 0, 0
	}
	ratio := math.Min(float64(target)/float64(w), float64(target)/float64(h))
	if ratio > 1 {
		ratio = 1
	}
	ow := int(math.Round(float64(w) * ratio))
	oh := int(math.Round(float64(h) * ratio))
	return max(ow, 1), max(oh, 1)
}

// Scale resamples f into a fresh NRGBA buffer, the pixel format the WebP
// encoder consumes.
func Scale(f codec.Frame, target int) codec.Frame {
	w, h := Fit(f.Width(), f.Height(), target)
	return codec.Frame{
		Image: imaging.Resize(f.Image, w, h, imaging.Lanczos),
		PTS:   f.PTS,
	}
}
