package post

import (
	"time"

	"github.com/fhuszti/booru-ms-go/internal/validation"
)

// Config is the part of the process settings the ingestion pipeline reads.
type Config struct {
	// FileTimeout bounds the whole pipeline for a single file.
	FileTimeout time.Duration `validate:"gt=0" json:"file_timeout"`
	// StaticPrefix is prepended to content paths to build public URLs.
	StaticPrefix string `validate:"required,startswith=/" json:"static_prefix"`
	// MaxPixels caps the declared width*height accepted for decoding.
	MaxPixels int64 `validate:"gt=0" json:"max_pixels"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(c)
}
