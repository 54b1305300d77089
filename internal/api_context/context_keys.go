package api_context

import (
	"context"

	"github.com/fhuszti/booru-ms-go/internal/model"
)

type ctxKey string

const (
	PostIDKey ctxKey = "postID"
	CallerKey ctxKey = "caller"
)

func PostIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(PostIDKey).(int64)
	return id, ok
}

// CallerFromContext falls back to an anonymous caller when no identity
// middleware ran.
func CallerFromContext(ctx context.Context) model.Caller {
	c, ok := ctx.Value(CallerKey).(model.Caller)
	if !ok {
		return model.Caller{}
	}
	return c
}

func WithCaller(ctx context.Context, c model.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, c)
}
