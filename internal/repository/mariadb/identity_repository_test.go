package mariadb

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fhuszti/booru-ms-go/internal/uuid"
)

func TestIdentityRepository_ResolveSession(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	token := uuid.NewUUID()
	uid := uuid.NewUUID()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions s`)).
		WithArgs(token[:]).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id"}).AddRow(uid[:], int64(4)))

	c, err := NewIdentityRepository(sqlDB).ResolveSession(context.Background(), token)
	if err != nil {
		t.Fatalf("ResolveSession() error: %v", err)
	}
	if c.UserID == nil || *c.UserID != uid {
		t.Errorf("user = %v; want %v", c.UserID, uid)
	}
	if c.GroupID == nil || *c.GroupID != 4 {
		t.Errorf("group = %v; want 4", c.GroupID)
	}
}

func TestIdentityRepository_UnknownSessionIsAnonymous(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM sessions s`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id"}))

	c, err := NewIdentityRepository(sqlDB).ResolveSession(context.Background(), uuid.NewUUID())
	if err != nil {
		t.Fatalf("ResolveSession() error: %v", err)
	}
	if !c.Anonymous() {
		t.Errorf("caller = %+v; want anonymous", c)
	}
}

func TestIdentityRepository_ResolveUser_NoGroup(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	uid := uuid.NewUUID()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = ?`)).
		WithArgs(uid[:]).
		WillReturnRows(sqlmock.NewRows([]string{"id", "group_id"}).AddRow(uid[:], nil))

	c, err := NewIdentityRepository(sqlDB).ResolveUser(context.Background(), uid)
	if err != nil {
		t.Fatalf("ResolveUser() error: %v", err)
	}
	if c.UserID == nil || c.GroupID != nil {
		t.Errorf("caller = %+v; want user without group", c)
	}
}

func TestIdentityRepository_Error(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).WillReturnError(errors.New("db fail"))

	if _, err := NewIdentityRepository(sqlDB).ResolveUser(context.Background(), uuid.NewUUID()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
