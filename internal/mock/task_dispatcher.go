package mock

import "context"

// MockDispatcher implements task dispatching for tests.
type MockDispatcher struct {
	ReplicateCalled bool
	ReplicateIDs    []int64
	ReplicateErr    error

	RegenerateCalled bool
	RegenerateIDs    []int64
	RegenerateErr    error
}

func (m *MockDispatcher) EnqueueReplicatePost(ctx context.Context, id int64) error {
	m.ReplicateCalled = true
	m.ReplicateIDs = append(m.ReplicateIDs, id)
	return m.ReplicateErr
}

func (m *MockDispatcher) EnqueueRegenerateThumbnail(ctx context.Context, id int64) error {
	m.RegenerateCalled = true
	m.RegenerateIDs = append(m.RegenerateIDs, id)
	return m.RegenerateErr
}
