package task

import (
	"encoding/json"
	"fmt"

	"github.com/fhuszti/booru-ms-go/internal/validation"
	"github.com/hibiken/asynq"
)

const (
	TypeReplicatePost       = "post:replicate"
	TypeRegenerateThumbnail = "post:regenerate_thumbnail"
)

// PostPayload identifies the post a task works on.
type PostPayload struct {
	PostID int64 `json:"post_id" validate:"gt=0"`
}

// NewReplicatePostTask creates an Asynq task copying a post to the replica bucket.
func NewReplicatePostTask(postID int64) (*asynq.Task, error) {
	return newPostTask(TypeReplicatePost, postID)
}

// NewRegenerateThumbnailTask creates an Asynq task rendering a post's thumbnail again.
func NewRegenerateThumbnailTask(postID int64) (*asynq.Task, error) {
	return newPostTask(TypeRegenerateThumbnail, postID)
}

func newPostTask(typename string, postID int64) (*asynq.Task, error) {
	data, err := json.Marshal(PostPayload{PostID: postID})
	if err != nil {
		return nil, fmt.Errorf("could not marshal %s payload: %w", typename, err)
	}
	return asynq.NewTask(typename, data), nil
}

// ParsePostPayload parses and validates the task payload.
func ParsePostPayload(t *asynq.Task) (PostPayload, error) {
	var p PostPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return PostPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	if err := validation.ValidateStruct(p); err != nil {
		return PostPayload{}, fmt.Errorf("invalid %s payload: %w", t.Type(), err)
	}
	return p, nil
}
