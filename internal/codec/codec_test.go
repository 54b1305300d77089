package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestBestStream(t *testing.T) {
	tests := []struct {
		name    string
		in      []Stream
		want    int
		wantErr error
	}{
		{
			name:    "no streams",
			wantErr: ErrNoVideoStream,
		},
		{
			name:    "only dimensionless streams",
			in:      []Stream{{Index: 0}, {Index: 1}},
			wantErr: ErrNoVideoStream,
		},
		{
			name: "largest area wins",
			in:   []Stream{{Index: 0, Width: 640, Height: 360}, {Index: 1, Width: 1920, Height: 1080}},
			want: 1,
		},
		{
			name: "bitrate breaks ties",
			in: []Stream{
				{Index: 0, Width: 1280, Height: 720, BitRate: 1000},
				{Index: 3, Width: 1280, Height: 720, BitRate: 5000},
				{Index: 4, Width: 1280, Height: 720, BitRate: 2000},
			},
			want: 3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BestStream(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v; want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Index != tc.want {
				t.Errorf("BestStream() index = %d; want %d", got.Index, tc.want)
			}
		})
	}
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	p := filepath.Join(t.TempDir(), "in.png")
	if err := os.WriteFile(p, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestStill_DecodesSinglePacket(t *testing.T) {
	ctx := context.Background()
	c, err := Still{}.Open(ctx, writePNG(t, 30, 20), "image/png")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c.Close()

	s, err := BestStream(c.Streams())
	if err != nil {
		t.Fatalf("BestStream() error: %v", err)
	}
	if s.Width != 30 || s.Height != 20 {
		t.Errorf("stream dims = %dx%d; want 30x20", s.Width, s.Height)
	}

	dec, err := c.NewDecoder(s)
	if err != nil {
		t.Fatalf("NewDecoder() error: %v", err)
	}
	if _, err := dec.ReceiveFrame(); !errors.Is(err, ErrNeedMore) {
		t.Fatalf("ReceiveFrame() before any packet = %v; want ErrNeedMore", err)
	}

	p, err := c.ReadPacket(ctx)
	if err != nil {
		t.Fatalf("ReadPacket() error: %v", err)
	}
	if err := dec.SendPacket(p); err != nil {
		t.Fatalf("SendPacket() error: %v", err)
	}
	f, err := dec.ReceiveFrame()
	if err != nil {
		t.Fatalf("ReceiveFrame() error: %v", err)
	}
	if f.Width() != 30 || f.Height() != 20 {
		t.Errorf("frame = %dx%d; want 30x20", f.Width(), f.Height())
	}

	if _, err := c.ReadPacket(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("second ReadPacket() = %v; want io.EOF", err)
	}
}

func TestStill_Corrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(p, []byte("\x89PNG\r\n\x1a\ngarbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (Still{}).Open(context.Background(), p, "image/png"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Open() error = %v; want ErrCorrupt", err)
	}
}

// pngHeader is a PNG that declares w x h pixels but carries no image data.
func pngHeader(t *testing.T, w, h uint32) string {
	t.Helper()
	chunk := func(typ string, data []byte) []byte {
		out := binary.BigEndian.AppendUint32(nil, uint32(len(data)))
		out = append(out, typ...)
		out = append(out, data...)
		return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(append([]byte(typ), data...)))
	}
	ihdr := binary.BigEndian.AppendUint32(nil, w)
	ihdr = binary.BigEndian.AppendUint32(ihdr, h)
	// 8-bit RGBA, deflate, no interlace
	ihdr = append(ihdr, 8, 6, 0, 0, 0)

	data := []byte("\x89PNG\r\n\x1a\n")
	data = append(data, chunk("IHDR", ihdr)...)
	data = append(data, chunk("IDAT", nil)...)
	data = append(data, chunk("IEND", nil)...)

	p := filepath.Join(t.TempDir(), "huge.png")
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestStill_PixelLimit(t *testing.T) {
	p := pngHeader(t, 200000, 200000)

	_, err := Still{MaxPixels: 100_000_000}.Open(context.Background(), p, "image/png")
	if !errors.Is(err, ErrTooManyPixels) {
		t.Fatalf("Open() error = %v; want ErrTooManyPixels", err)
	}

	// within the limit the header alone is accepted; decoding is what fails
	c, err := Still{MaxPixels: 100_000_000}.Open(context.Background(), pngHeader(t, 10, 10), "image/png")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	_ = c.Close()
}

type recordingOpener struct {
	called bool
}

func (r *recordingOpener) Open(ctx context.Context, path, mime string) (Container, error) {
	r.called = true
	return nil, nil
}

func TestRouter(t *testing.T) {
	tests := []struct {
		mime       string
		wantNative bool
	}{
		{"image/png", false},
		{"image/apng", false},
		{"image/jpeg", false},
		{"image/webp", false},
		{"image/avif", true},
		{"video/mp4", true},
		{"video/webm", true},
	}
	for _, tc := range tests {
		t.Run(tc.mime, func(t *testing.T) {
			still, native := &recordingOpener{}, &recordingOpener{}
			_, _ = NewRouter(still, native).Open(context.Background(), "x", tc.mime)
			if native.called != tc.wantNative || still.called == tc.wantNative {
				t.Errorf("still=%v native=%v; want native=%v", still.called, native.called, tc.wantNative)
			}
		})
	}
}

func TestFrame_PixelFormat(t *testing.T) {
	f := Frame{Image: image.NewNRGBA(image.Rect(0, 0, 1, 1))}
	if f.PixelFormat() != "nrgba" {
		t.Errorf("PixelFormat() = %q; want nrgba", f.PixelFormat())
	}
	f = Frame{Image: image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420)}
	if f.PixelFormat() != "ycbcr" {
		t.Errorf("PixelFormat() = %q; want ycbcr", f.PixelFormat())
	}
}
