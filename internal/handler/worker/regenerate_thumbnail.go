package worker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fhuszti/booru-ms-go/internal/codec"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/task"
	"github.com/fhuszti/booru-ms-go/internal/usecase/post"
	"github.com/fhuszti/booru-ms-go/internal/validation"
	"github.com/hibiken/asynq"
)

// RegenerateThumbnailHandler handles a regenerate-thumbnail task.
// Posts that vanished, lost their original or declare more pixels than the
// decoder accepts are not retried.
func RegenerateThumbnailHandler(ctx context.Context, p task.PostPayload, svc port.ThumbnailRegenerator) error {
	if err := validation.ValidateStruct(p); err != nil {
		log.Printf("❌  Payload validation failed: %v", err)
		return err
	}

	err := svc.RegenerateThumbnail(ctx, p.PostID)
	if errors.Is(err, post.ErrPostNotFound) || errors.Is(err, post.ErrOriginalMissing) || errors.Is(err, codec.ErrTooManyPixels) {
		log.Printf("⚠️  Giving up on thumbnail for post #%d: %v", p.PostID, err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if err != nil {
		log.Printf("❌  Failed to regenerate thumbnail for post #%d: %v", p.PostID, err)
		return err
	}

	log.Printf("✅  Successfully regenerated thumbnail for post #%d", p.PostID)
	return nil
}
