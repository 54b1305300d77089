package mock

import (
	"context"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/model"
)

// MockPostRepo implements repository operations for tests.
type MockPostRepo struct {
	PostRecord *model.Post
	CreateID   int64
	// ListPages is served one page per ListCreatedBefore call.
	ListPages [][]model.Post

	GetErr    error
	CreateErr error
	DeleteErr error
	ListErr   error

	GetCalled    bool
	Created      *model.Post
	DeletedIDs   []int64
	ListCalls    int
	ListBefore   time.Time
	ListAfterIDs []int64
}

func (m *MockPostRepo) Create(ctx context.Context, p *model.Post) (int64, error) {
	m.Created = p
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	return m.CreateID, nil
}

func (m *MockPostRepo) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.PostRecord, nil
}

func (m *MockPostRepo) Delete(ctx context.Context, id int64) error {
	m.DeletedIDs = append(m.DeletedIDs, id)
	return m.DeleteErr
}

func (m *MockPostRepo) ListCreatedBefore(ctx context.Context, before time.Time, afterID int64, limit int) ([]model.Post, error) {
	m.ListBefore = before
	m.ListAfterIDs = append(m.ListAfterIDs, afterID)
	call := m.ListCalls
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if call >= len(m.ListPages) {
		return nil, nil
	}
	return m.ListPages[call], nil
}
