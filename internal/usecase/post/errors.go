package post

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrEmptyFile            = errors.New("empty file")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrContentTooLarge      = errors.New("content too large")
	ErrMalformedUpload      = errors.New("malformed upload")
	ErrDuplicatePost        = errors.New("duplicate post")
	ErrPostNotFound         = errors.New("post not found")
	ErrOriginalMissing      = errors.New("original file missing")
)

// UnsupportedMediaTypeError names what was detected and, for files that
// sniffed fine but would not decode, why.
type UnsupportedMediaTypeError struct {
	Detected string
	Reason   string
}

func (e *UnsupportedMediaTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported media type: %s (%s)", e.Detected, e.Reason)
	}
	return fmt.Sprintf("unsupported media type: %s", e.Detected)
}

func (e *UnsupportedMediaTypeError) Is(target error) bool {
	return target == ErrUnsupportedMediaType
}

// IsClientError reports whether err was caused by the request rather than
// by the server.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrUnsupportedMediaType) ||
		errors.Is(err, ErrContentTooLarge) ||
		errors.Is(err, ErrMalformedUpload) ||
		errors.Is(err, ErrDuplicatePost) ||
		errors.Is(err, ErrPostNotFound)
}
