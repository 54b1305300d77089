// Package codec abstracts the multimedia library behind the operations the
// thumbnail pipeline needs: open a container, pick a stream, seek, and turn
// packets into frames.
package codec

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"
)

var (
	// ErrNeedMore is returned by ReceiveFrame until enough packets were sent.
	ErrNeedMore      = errors.New("codec: decoder needs more input")
	ErrNoVideoStream = errors.New("codec: no video stream")
	ErrCorrupt       = errors.New("codec: undecodable media")
	// ErrTooManyPixels rejects a stream whose declared size is over the
	// decode ceiling, before any pixel buffer is allocated.
	ErrTooManyPixels = errors.New("codec: dimensions exceed the pixel limit")
)

// checkPixels fails when w*h is above limit. A limit of 0 disables the check.
func checkPixels(w, h int, limit int64) error {
	if limit > 0 && int64(w)*int64(h) > limit {
		return fmt.Errorf("%w: %dx%d", ErrTooManyPixels, w, h)
	}
	return nil
}

type Stream struct {
	Index    int
	Codec    string
	Width    int
	Height   int
	BitRate  int64
	Duration time.Duration
}

type Packet struct {
	StreamIndex int
	Data        []byte
}

// Frame is one decoded picture. It never aliases a packet buffer.
type Frame struct {
	Image image.Image
	PTS   time.Duration
}

func (f Frame) Width() int  { return f.Image.Bounds().Dx() }
func (f Frame) Height() int { return f.Image.Bounds().Dy() }

func (f Frame) PixelFormat() string {
	switch f.Image.(type) {
	case *image.NRGBA:
		return "nrgba"
	case *image.RGBA:
		return "rgba"
	case *image.YCbCr:
		return "ycbcr"
	case *image.Paletted:
		return "pal8"
	case *image.Gray:
		return "gray"
	default:
		return "other"
	}
}

type Container interface {
	Streams() []Stream
	Duration() time.Duration
	// Seek positions the next ReadPacket at ts for the selected stream.
	Seek(ctx context.Context, ts time.Duration) error
	// ReadPacket returns io.EOF once the container is exhausted.
	ReadPacket(ctx context.Context) (Packet, error)
	NewDecoder(s Stream) (Decoder, error)
	Close() error
}

type Decoder interface {
	SendPacket(p Packet) error
	ReceiveFrame() (Frame, error)
}

type Opener interface {
	Open(ctx context.Context, path, mime string) (Container, error)
}

// BestStream picks the video stream with the most pixels, then the highest
// bitrate, like ffmpeg's default stream selection.
func BestStream(streams []Stream) (Stream, error) {
	var best Stream
	found := false
	for _, s := range streams {
		if s.Width <= 0 || s.Height <= 0 {
			continue
		}
		if !found {
			best, found = s, true
			continue
		}
		area, bestArea := s.Width*s.Height, best.Width*best.Height
		if area > bestArea || (area == bestArea && s.BitRate > best.BitRate) {
			best = s
		}
	}
	if !found {
		return Stream{}, ErrNoVideoStream
	}
	return best, nil
}

// Router sends still formats Go can decode natively to one backend and
// everything else to another.
type Router struct {
	still  Opener
	native Opener
}

var _ Opener = (*Router)(nil)

func NewRouter(still, native Opener) *Router {
	return &Router{still: still, native: native}
}

func (r *Router) Open(ctx context.Context, path, mime string) (Container, error) {
	if stillMIMEs[mime] {
		return r.still.Open(ctx, path, mime)
	}
	return r.native.Open(ctx, path, mime)
}
