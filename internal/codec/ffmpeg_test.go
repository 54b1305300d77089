package codec

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"
)

const probeJSON = `{
  "streams": [
    {"index": 0, "codec_name": "aac", "codec_type": "audio"},
    {"index": 1, "codec_name": "h264", "codec_type": "video", "width": 2, "height": 2, "bit_rate": "1000", "duration": "4.000000"},
    {"index": 2, "codec_name": "mjpeg", "codec_type": "video", "width": 600, "height": 600, "disposition": {"attached_pic": 1}}
  ],
  "format": {"duration": "4.000000"}
}`

func TestParseProbe(t *testing.T) {
	streams, dur, err := parseProbe([]byte(probeJSON))
	if err != nil {
		t.Fatalf("parseProbe() error: %v", err)
	}
	if dur != 4*time.Second {
		t.Errorf("duration = %v; want 4s", dur)
	}
	if len(streams) != 1 {
		t.Fatalf("got %d streams; want 1 (audio and cover art skipped)", len(streams))
	}
	s := streams[0]
	if s.Index != 1 || s.Width != 2 || s.Height != 2 || s.BitRate != 1000 || s.Codec != "h264" {
		t.Errorf("stream = %+v", s)
	}
}

func TestParseProbe_Garbage(t *testing.T) {
	if _, _, err := parseProbe([]byte("not json")); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("error = %v; want ErrCorrupt", err)
	}
}

// writeScript drops an executable shell script standing in for ffmpeg/ffprobe.
func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestFFmpeg_DecodesFrame(t *testing.T) {
	probe := writeScript(t, "ffprobe", "cat <<'EOF'\n"+probeJSON+"\nEOF\n")
	// 2x2 RGBA frame = 16 bytes
	ffmpeg := writeScript(t, "ffmpeg", "head -c 16 /dev/zero\n")

	ctx := context.Background()
	c, err := NewFFmpeg(ffmpeg, probe, 10, 0).Open(ctx, "/does/not/matter.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c.Close()

	s, err := BestStream(c.Streams())
	if err != nil {
		t.Fatalf("BestStream() error: %v", err)
	}
	if err := c.Seek(ctx, c.Duration()/2); err != nil {
		t.Fatalf("Seek() error: %v", err)
	}
	dec, err := c.NewDecoder(s)
	if err != nil {
		t.Fatalf("NewDecoder() error: %v", err)
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
	if f.Width() != 2 || f.Height() != 2 || f.PixelFormat() != "nrgba" {
		t.Errorf("frame = %dx%d %s", f.Width(), f.Height(), f.PixelFormat())
	}
	if f.PTS != 2*time.Second {
		t.Errorf("PTS = %v; want 2s", f.PTS)
	}

	if _, err := c.ReadPacket(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("ReadPacket() after last frame = %v; want io.EOF", err)
	}
}

func TestFFmpeg_PartialFrameNeedsMore(t *testing.T) {
	probe := writeScript(t, "ffprobe", "cat <<'EOF'\n"+probeJSON+"\nEOF\n")
	ffmpeg := writeScript(t, "ffmpeg", "head -c 5 /dev/zero\n")

	ctx := context.Background()
	c, err := NewFFmpeg(ffmpeg, probe, 10, 0).Open(ctx, "x.webm", "video/webm")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c.Close()

	s, _ := BestStream(c.Streams())
	dec, _ := c.NewDecoder(s)
	p, err := c.ReadPacket(ctx)
	if err != nil {
		t.Fatalf("ReadPacket() error: %v", err)
	}
	if len(p.Data) != 5 {
		t.Fatalf("packet len = %d; want 5", len(p.Data))
	}
	_ = dec.SendPacket(p)
	if _, err := dec.ReceiveFrame(); !errors.Is(err, ErrNeedMore) {
		t.Errorf("ReceiveFrame() = %v; want ErrNeedMore", err)
	}
	if _, err := c.ReadPacket(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("ReadPacket() = %v; want io.EOF", err)
	}
}

func TestFFmpeg_ProbeFailure(t *testing.T) {
	probe := writeScript(t, "ffprobe", "echo boom >&2\nexit 1\n")
	_, err := NewFFmpeg("ffmpeg", probe, 10, 0).Open(context.Background(), "x.mp4", "video/mp4")
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Open() error = %v; want ErrCorrupt", err)
	}
}

func TestFFmpeg_DecoderFailure(t *testing.T) {
	probe := writeScript(t, "ffprobe", "cat <<'EOF'\n"+probeJSON+"\nEOF\n")
	ffmpeg := writeScript(t, "ffmpeg", "echo 'invalid data found' >&2\nexit 1\n")

	ctx := context.Background()
	c, err := NewFFmpeg(ffmpeg, probe, 10, 0).Open(ctx, "x.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c.Close()
	s, _ := BestStream(c.Streams())
	_, _ = c.NewDecoder(s)
	if _, err := c.ReadPacket(ctx); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("ReadPacket() error = %v; want ErrCorrupt", err)
	}
}

func TestFFmpeg_PixelLimit(t *testing.T) {
	probe := writeScript(t, "ffprobe", "cat <<'EOF'\n"+probeJSON+"\nEOF\n")
	marker := filepath.Join(t.TempDir(), "started")
	ffmpeg := writeScript(t, "ffmpeg", "touch "+marker+"\nhead -c 16 /dev/zero\n")

	ctx := context.Background()
	// the 2x2 stream is 4 pixels
	c, err := NewFFmpeg(ffmpeg, probe, 10, 3).Open(ctx, "x.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c.Close()
	s, _ := BestStream(c.Streams())
	if _, err := c.NewDecoder(s); err != nil {
		t.Fatalf("NewDecoder() error: %v", err)
	}

	if _, err := c.ReadPacket(ctx); !errors.Is(err, ErrTooManyPixels) {
		t.Fatalf("ReadPacket() error = %v; want ErrTooManyPixels", err)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Error("ffmpeg should not be started for an oversized stream")
	}
}

func TestFFmpegArgs_BoundInput(t *testing.T) {
	c := &ffmpegContainer{path: "in.mp4", maxFrames: 10, seek: 1500 * time.Millisecond, selected: &Stream{Index: 1}}
	args := c.args()

	want := map[string]string{
		"-probesize":       "5242880",
		"-analyzeduration": "5000000",
		"-ss":              "1.500",
		"-map":             "0:1",
		"-frames:v":        "10",
		"-max_error_rate":  "0.5",
	}
	for flag, val := range want {
		i := slices.Index(args, flag)
		if i < 0 || i+1 >= len(args) || args[i+1] != val {
			t.Errorf("%s = %v; want %q", flag, args, val)
		}
	}
	// input options must come before -i to apply to the input
	in := slices.Index(args, "-i")
	for _, flag := range []string{"-probesize", "-analyzeduration", "-ss"} {
		if slices.Index(args, flag) > in {
			t.Errorf("%s comes after -i in %v", flag, args)
		}
	}
}
