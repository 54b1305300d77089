package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var stillMIMEs = map[string]bool{
	"image/png":  true,
	"image/apng": true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// Still decodes single images with the Go image decoders. The whole file
// is one packet; animated formats yield their first frame. Headers declaring
// more than MaxPixels pixels are refused before decoding.
type Still struct {
	MaxPixels int64
}

var _ Opener = Still{}

func (st Still) Open(ctx context.Context, path, mime string) (Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("codec: read %s: %w", path, err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := checkPixels(cfg.Width, cfg.Height, st.MaxPixels); err != nil {
		return nil, err
	}
	return &stillContainer{
		data:   data,
		stream: Stream{Index: 0, Codec: format, Width: cfg.Width, Height: cfg.Height},
	}, nil
}

type stillContainer struct {
	data   []byte
	stream Stream
	read   bool
}

func (c *stillContainer) Streams() []Stream {
	return []Stream{c.stream}
}

func (c *stillContainer) Duration() time.Duration {
	return 0
}

func (c *stillContainer) Seek(context.Context, time.Duration) error {
	return nil
}

func (c *stillContainer) Close() error {
	return nil
}

func (c *stillContainer) ReadPacket(ctx context.Context) (Packet, error) {
	if err := ctx.Err(); err != nil {
		return Packet{}, err
	}
	if c.read {
		return Packet{}, io.EOF
	}
	c.read = true
	return Packet{StreamIndex: c.stream.Index, Data: c.data}, nil
}

func (c *stillContainer) NewDecoder(s Stream) (Decoder, error) {
	if s.Index != c.stream.Index {
		return nil, fmt.Errorf("codec: no stream #%d", s.Index)
	}
	return &stillDecoder{}, nil
}

type stillDecoder struct {
	pending []byte
}

func (d *stillDecoder) SendPacket(p Packet) error {
	d.pending = p.Data
	return nil
}

func (d *stillDecoder) ReceiveFrame() (Frame, error) {
	if d.pending == nil {
		return Frame{}, ErrNeedMore
	}
	data := d.pending
	d.pending = nil

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return Frame{Image: img}, nil
}
