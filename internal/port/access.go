package port

import (
	"context"

	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/uuid"
)

// AccessControl answers "may caller perform op on res".
type AccessControl interface {
	Can(ctx context.Context, caller model.Caller, op model.Operation, res model.Resource) (bool, error)
}

// IdentityResolver turns credentials into a caller. Unknown credentials
// resolve to an anonymous caller, not an error.
type IdentityResolver interface {
	ResolveSession(ctx context.Context, token uuid.UUID) (model.Caller, error)
	ResolveUser(ctx context.Context, userID uuid.UUID) (model.Caller, error)
}
