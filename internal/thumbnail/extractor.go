package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/codec"
	"github.com/fhuszti/booru-ms-go/internal/validation"
)

// ErrNoFrame means the packet budget ran out before a frame was decoded.
var ErrNoFrame = errors.New("thumbnail: no decodable frame within the packet budget")

type SeekPolicy string

const (
	SeekMidpoint SeekPolicy = "midpoint"
	SeekOffset   SeekPolicy = "offset"
)

type ExtractorConfig struct {
	MaxPackets int           `validate:"gt=0" json:"max_packets"`
	Seek       SeekPolicy    `validate:"oneof=midpoint offset" json:"seek"`
	Offset     time.Duration `validate:"gte=0" json:"offset"`
}

func (c ExtractorConfig) Validate() error {
	return validation.ValidateStruct(c)
}

type Extractor struct {
	opener codec.Opener
	cfg    ExtractorConfig
}

func NewExtractor(opener codec.Opener, cfg ExtractorConfig) *Extractor {
	return &Extractor{opener: opener, cfg: cfg}
}

// Extracted is one representative frame and the native size of its stream.
type Extracted struct {
	Frame  codec.Frame
	Width  int
	Height int
}

// Probe returns the native dimensions of the best stream in path.
func (e *Extractor) Probe(ctx context.Context, path, mime string) (int, int, error) {
	c, err := e.opener.Open(ctx, path, mime)
	if err != nil {
		return 0, 0, err
	}
	defer c.Close()

	s, err := codec.BestStream(c.Streams())
	if err != nil {
		return 0, 0, err
	}
	return s.Width, s.Height, nil
}

// Extract decodes one frame at the representative timestamp. At most
// MaxPackets packets are read before giving up with ErrNoFrame.
func (e *Extractor) Extract(ctx context.Context, path, mime string) (Extracted, error) {
	c, err := e.opener.Open(ctx, path, mime)
	if err != nil {
		return Extracted{}, err
	}
	defer c.Close()

	s, err := codec.BestStream(c.Streams())
	if err != nil {
		return Extracted{}, err
	}
	if err := c.Seek(ctx, e.seekPoint(s.Duration, c.Duration())); err != nil {
		return Extracted{}, fmt.Errorf("seek: %w", err)
	}
	dec, err := c.NewDecoder(s)
	if err != nil {
		return Extracted{}, err
	}

	for attempt := 0; attempt < e.cfg.MaxPackets; attempt++ {
		p, err := c.ReadPacket(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Extracted{}, err
		}
		if p.StreamIndex != s.Index {
			continue
		}
		if err := dec.SendPacket(p); err != nil {
			return Extracted{}, err
		}
		f, err := dec.ReceiveFrame()
		if errors.Is(err, codec.ErrNeedMore) {
			continue
		}
		if err != nil {
			return Extracted{}, err
		}
		return Extracted{Frame: f, Width: s.Width, Height: s.Height}, nil
	}
	return Extracted{}, ErrNoFrame
}

// seekPoint is zero for stills; an offset past the end falls back to zero.
// The selected stream's own length wins over the container's, which also
// covers audio that may outlast the video.
func (e *Extractor) seekPoint(stream, container time.Duration) time.Duration {
	d := stream
	if d <= 0 {
		d = container
	}
	if d <= 0 {
		return 0
	}
	switch e.cfg.Seek {
	case SeekOffset:
		if e.cfg.Offset >= d {
			return 0
		}
		return e.cfg.Offset
	default:
		return d / 2
	}
}
