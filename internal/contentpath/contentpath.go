// Package contentpath maps a content digest to its place in the data root.
//
// Layout, relative to the data root:
//
//	media/ab/cd/abcd….<ext>   originals
//	thumb/ab/cd/abcd….webp    thumbnails
//	tmp/<random>              spool files
package contentpath

import (
	"path"

	"github.com/fhuszti/booru-ms-go/internal/model"
)

const (
	MediaRoot     = "media"
	ThumbnailRoot = "thumb"
	ScratchRoot   = "tmp"

	ThumbnailExt = "webp"
)

// Media is the relative path of an original with the given extension.
func Media(d model.Digest, ext string) string {
	return sharded(MediaRoot, d, ext)
}

// Thumbnail is the relative path of a digest's thumbnail, whatever the
// source format.
func Thumbnail(d model.Digest) string {
	return sharded(ThumbnailRoot, d, ThumbnailExt)
}

func sharded(root string, d model.Digest, ext string) string {
	hex := d.String()
	return path.Join(root, hex[0:2], hex[2:4], hex+"."+ext)
}
