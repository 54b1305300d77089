package thumbnail

import (
	"fmt"

	"github.com/fhuszti/booru-ms-go/internal/codec"
	"github.com/fhuszti/booru-ms-go/internal/config"
)

const webpQuality = 80

// NewFromSettings builds the production generator: Go decoders for still
// images, ffmpeg for video and everything else.
func NewFromSettings(s *config.Settings) (*Generator, error) {
	cfg := ExtractorConfig{
		MaxPackets: s.DecodeMaxPackets,
		Seek:       SeekPolicy(s.VideoSeekPolicy),
		Offset:     s.VideoSeekOffset,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extractor config: %w", err)
	}
	if s.ThumbnailSize <= 0 {
		return nil, fmt.Errorf("thumbnail size must be positive, got %d", s.ThumbnailSize)
	}
	if s.MaxPixels <= 0 {
		return nil, fmt.Errorf("max pixels must be positive, got %d", s.MaxPixels)
	}

	opener := codec.NewRouter(
		codec.Still{MaxPixels: s.MaxPixels},
		codec.NewFFmpeg(s.FFmpegPath, s.FFprobePath, s.DecodeMaxPackets, s.MaxPixels),
	)
	return NewGenerator(NewExtractor(opener, cfg), NewEncoder(NewWebPEncoder(), webpQuality), s.ThumbnailSize), nil
}
