package model

import "github.com/fhuszti/booru-ms-go/internal/uuid"

type Operation string

const (
	OperationRead   Operation = "read"
	OperationModify Operation = "modify"
	OperationDelete Operation = "delete"
	OperationCreate Operation = "create"
)

type Resource string

const (
	ResourcePosts Resource = "posts"
	ResourceWiki  Resource = "wiki"
)

// Caller is whoever issued the request. Anonymous callers have neither a
// user nor a group.
type Caller struct {
	UserID  *uuid.UUID
	GroupID *int64
}

func (c Caller) Anonymous() bool {
	return c.UserID == nil
}
