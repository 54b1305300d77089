package port

import "context"

// HTTPRenderer mediates between HTTP handlers and the post getter use case.
// It provides caching capabilities and returns both the JSON representation of
// the result as well as an ETag value derived from it.
type HTTPRenderer interface {
	// RenderGetPost returns the cached JSON result and its ETag if available or
	// executes the underlying use case and caches the output otherwise.
	RenderGetPost(ctx context.Context, getter PostGetter, id int64) ([]byte, string, error)
}
