package model

import (
	"time"

	"github.com/fhuszti/booru-ms-go/internal/uuid"
)

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

type Post struct {
	ID            int64      `json:"id"`
	UploaderID    *uuid.UUID `json:"uploader_id,omitempty"`
	Digest        Digest     `json:"digest"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	MediaKind     MediaKind  `json:"media_kind"`
	ByteSize      int64      `json:"byte_size"`
	ContentPath   string     `json:"content_path"`
	ThumbnailPath string     `json:"thumbnail_path"`
	CreatedAt     time.Time  `json:"created_at"`
}
