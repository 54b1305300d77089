package port

import (
	"context"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/model"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// Create inserts p and returns its id. A digest already in the catalog
	// fails with post.ErrDuplicatePost.
	Create(ctx context.Context, p *model.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
	// ListCreatedBefore pages through posts older than before, by id.
	ListCreatedBefore(ctx context.Context, before time.Time, afterID int64, limit int) ([]model.Post, error)
}
