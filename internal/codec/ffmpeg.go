package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"time"
)

// FFmpeg binds the ffprobe/ffmpeg executables. ffprobe describes the
// container; ffmpeg decodes the selected stream from the seek point into raw
// RGBA frames, one packet per frame.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	maxFrames   int
	maxPixels   int64
}

var _ Opener = (*FFmpeg)(nil)

func NewFFmpeg(ffmpegPath, ffprobePath string, maxFrames int, maxPixels int64) *FFmpeg {
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, maxFrames: maxFrames, maxPixels: maxPixels}
}

type probeOutput struct {
	Streams []struct {
		Index       int    `json:"index"`
		CodecName   string `json:"codec_name"`
		CodecType   string `json:"codec_type"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		BitRate     string `json:"bit_rate"`
		Duration    string `json:"duration"`
		Disposition struct {
			AttachedPic int `json:"attached_pic"`
		} `json:"disposition"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (f *FFmpeg) Open(ctx context.Context, path, mime string) (Container, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: ffprobe: %v - %s", ErrCorrupt, err, stderr.String())
	}

	streams, duration, err := parseProbe(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	return &ffmpegContainer{
		bin:       f.ffmpegPath,
		path:      path,
		streams:   streams,
		duration:  duration,
		maxFrames: f.maxFrames,
		maxPixels: f.maxPixels,
	}, nil
}

// parseProbe keeps only real video streams; cover art is skipped.
func parseProbe(raw []byte) ([]Stream, time.Duration, error) {
	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, 0, fmt.Errorf("%w: ffprobe output: %v", ErrCorrupt, err)
	}

	var streams []Stream
	for _, s := range out.Streams {
		if s.CodecType != "video" || s.Disposition.AttachedPic == 1 {
			continue
		}
		br, _ := strconv.ParseInt(s.BitRate, 10, 64)
		streams = append(streams, Stream{
			Index:    s.Index,
			Codec:    s.CodecName,
			Width:    s.Width,
			Height:   s.Height,
			BitRate:  br,
			Duration: seconds(s.Duration),
		})
	}
	return streams, seconds(out.Format.Duration), nil
}

func seconds(s string) time.Duration {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}

type ffmpegContainer struct {
	bin       string
	path      string
	streams   []Stream
	duration  time.Duration
	maxFrames int
	maxPixels int64

	seek     time.Duration
	selected *Stream

	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	done   bool
}

func (c *ffmpegContainer) Streams() []Stream       { return c.streams }
func (c *ffmpegContainer) Duration() time.Duration { return c.duration }

func (c *ffmpegContainer) Seek(ctx context.Context, ts time.Duration) error {
	if c.cmd != nil {
		return errors.New("codec: seek after decoding started")
	}
	c.seek = ts
	return nil
}

func (c *ffmpegContainer) NewDecoder(s Stream) (Decoder, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, ErrNoVideoStream
	}
	c.selected = &s
	return &rawDecoder{width: s.Width, height: s.Height, pts: c.seek}, nil
}

// Input-side bounds for ffmpeg. Each packet handed to the extractor is a
// whole decoded frame, so these cap what ffmpeg itself demuxes while looking
// for one.
const (
	probeSizeBytes     = 5 << 20
	analyzeDurationUS  = 5_000_000
	maxInputErrorRatio = "0.5"
)

func (c *ffmpegContainer) args() []string {
	maxFrames := c.maxFrames
	if maxFrames <= 0 {
		maxFrames = 1
	}
	return []string{
		"-v", "error",
		"-nostdin",
		"-noautorotate",
		"-probesize", strconv.Itoa(probeSizeBytes),
		"-analyzeduration", strconv.Itoa(analyzeDurationUS),
		"-ss", strconv.FormatFloat(c.seek.Seconds(), 'f', 3, 64),
		"-i", c.path,
		"-map", fmt.Sprintf("0:%d", c.selected.Index),
		"-frames:v", strconv.Itoa(maxFrames),
		"-max_error_rate", maxInputErrorRatio,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	}
}

func (c *ffmpegContainer) start(ctx context.Context) error {
	if c.selected == nil {
		return errors.New("codec: no stream selected")
	}
	c.cmd = exec.CommandContext(ctx, c.bin, c.args()...)
	c.cmd.Stderr = &c.stderr
	stdout, err := c.cmd.StdoutPipe()
	if err != nil {
		return err
	}
	c.stdout = stdout
	if err := c.cmd.Start(); err != nil {
		return fmt.Errorf("codec: start ffmpeg: %w", err)
	}
	return nil
}

func (c *ffmpegContainer) ReadPacket(ctx context.Context) (Packet, error) {
	if c.done {
		return Packet{}, io.EOF
	}
	if c.selected == nil {
		return Packet{}, errors.New("codec: no stream selected")
	}
	// one packet holds a whole RGBA frame
	if err := checkPixels(c.selected.Width, c.selected.Height, c.maxPixels); err != nil {
		return Packet{}, err
	}
	if c.cmd == nil {
		if err := c.start(ctx); err != nil {
			return Packet{}, err
		}
	}

	buf := make([]byte, c.selected.Width*c.selected.Height*4)
	n, err := io.ReadFull(c.stdout, buf)
	switch {
	case err == nil:
		return Packet{StreamIndex: c.selected.Index, Data: buf}, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		c.done = true
		return Packet{StreamIndex: c.selected.Index, Data: buf[:n]}, nil
	case errors.Is(err, io.EOF):
		c.done = true
		if wErr := c.wait(); wErr != nil {
			return Packet{}, wErr
		}
		return Packet{}, io.EOF
	default:
		return Packet{}, err
	}
}

func (c *ffmpegContainer) wait() error {
	cmd := c.cmd
	if cmd == nil || cmd.ProcessState != nil {
		return nil
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%w: ffmpeg: %v - %s", ErrCorrupt, err, c.stderr.String())
	}
	return nil
}

func (c *ffmpegContainer) Close() error {
	if c.cmd == nil || c.cmd.ProcessState != nil {
		return nil
	}
	_ = c.cmd.Process.Kill()
	_ = c.cmd.Wait()
	return nil
}

// rawDecoder assembles width*height*4 bytes of RGBA into one frame.
type rawDecoder struct {
	width, height int
	pts           time.Duration
	buf           []byte
}

func (d *rawDecoder) SendPacket(p Packet) error {
	d.buf = append(d.buf, p.Data...)
	return nil
}

func (d *rawDecoder) ReceiveFrame() (Frame, error) {
	size := d.width * d.height * 4
	if len(d.buf) < size {
		return Frame{}, ErrNeedMore
	}
	img := image.NewNRGBA(image.Rect(0, 0, d.width, d.height))
	copy(img.Pix, d.buf[:size])
	d.buf = d.buf[size:]
	return Frame{Image: img, PTS: d.pts}, nil
}
