package worker

import (
	"context"
	"log"

	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/task"
	"github.com/fhuszti/booru-ms-go/internal/validation"
)

// ReplicatePostHandler handles a replicate-post task.
// It validates the incoming payload and delegates the call to the service.
func ReplicatePostHandler(ctx context.Context, p task.PostPayload, svc port.PostReplicator) error {
	if err := validation.ValidateStruct(p); err != nil {
		log.Printf("❌  Payload validation failed: %v", err)
		return err
	}

	if err := svc.ReplicatePost(ctx, p.PostID); err != nil {
		log.Printf("❌  Failed to replicate post #%d: %v", p.PostID, err)
		return err
	}

	log.Printf("✅  Successfully replicated post #%d", p.PostID)
	return nil
}
