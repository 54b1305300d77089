// Package sniffer classifies an upload from its leading bytes.
package sniffer

import (
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fhuszti/booru-ms-go/internal/model"
)

// PrefixLen is how many leading bytes callers should hand to Sniff.
const PrefixLen = 3072

var ErrEmptyFile = errors.New("sniffer: empty file")

// UnsupportedTypeError reports the type that was detected but is not
// accepted, "application/octet-stream" when nothing matched.
type UnsupportedTypeError struct {
	Detected string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported media type: %s", e.Detected)
}

type Format struct {
	MIME string
	Ext  string
	Kind model.MediaKind
}

// allow-list; detect is the name mimetype reports
var formats = []struct {
	detect string
	format Format
}{
	{"image/png", Format{"image/png", "png", model.MediaKindImage}},
	{"image/vnd.mozilla.apng", Format{"image/apng", "png", model.MediaKindImage}},
	{"image/jpeg", Format{"image/jpeg", "jpg", model.MediaKindImage}},
	{"image/gif", Format{"image/gif", "gif", model.MediaKindImage}},
	{"image/webp", Format{"image/webp", "webp", model.MediaKindImage}},
	{"image/avif", Format{"image/avif", "avif", model.MediaKindImage}},
	{"image/bmp", Format{"image/bmp", "bmp", model.MediaKindImage}},
	{"image/tiff", Format{"image/tiff", "tiff", model.MediaKindImage}},
	{"video/webm", Format{"video/webm", "webm", model.MediaKindVideo}},
	{"video/ogg", Format{"video/ogg", "ogv", model.MediaKindVideo}},
	{"video/mp4", Format{"video/mp4", "mp4", model.MediaKindVideo}},
}

// Sniff inspects the magic bytes of prefix. It has no side effects.
func Sniff(prefix []byte) (Format, error) {
	if len(prefix) == 0 {
		return Format{}, ErrEmptyFile
	}

	detected := mimetype.Detect(prefix)
	for _, f := range formats {
		if detected.Is(f.detect) {
			return f.format, nil
		}
	}
	return Format{}, &UnsupportedTypeError{Detected: detected.String()}
}

// ByExt returns the allow-listed format stored under a file extension.
// "png" resolves to plain PNG, which also decodes APNG's first frame.
func ByExt(ext string) (Format, bool) {
	for _, f := range formats {
		if f.format.Ext == ext {
			return f.format, true
		}
	}
	return Format{}, false
}
