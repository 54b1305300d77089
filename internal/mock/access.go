package mock

import (
	"context"

	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/uuid"
)

// AccessControl implements port.AccessControl for tests.
type AccessControl struct {
	Allow bool
	Err   error

	Called    bool
	GotCaller model.Caller
	GotOp     model.Operation
	GotRes    model.Resource
}

func (m *AccessControl) Can(ctx context.Context, caller model.Caller, op model.Operation, res model.Resource) (bool, error) {
	m.Called = true
	m.GotCaller = caller
	m.GotOp = op
	m.GotRes = res
	return m.Allow, m.Err
}

// IdentityResolver implements port.IdentityResolver for tests.
type IdentityResolver struct {
	CallerOut model.Caller
	Err       error

	SessionCalled bool
	UserCalled    bool
	GotToken      uuid.UUID
	GotUserID     uuid.UUID
}

func (m *IdentityResolver) ResolveSession(ctx context.Context, token uuid.UUID) (model.Caller, error) {
	m.SessionCalled = true
	m.GotToken = token
	return m.CallerOut, m.Err
}

func (m *IdentityResolver) ResolveUser(ctx context.Context, userID uuid.UUID) (model.Caller, error) {
	m.UserCalled = true
	m.GotUserID = userID
	return m.CallerOut, m.Err
}
