package mariadb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/uuid"
)

// IdentityRepository resolves session tokens and user ids to callers.
type IdentityRepository struct {
	db *sql.DB
}

// compile-time check: *IdentityRepository must satisfy port.IdentityResolver
var _ port.IdentityResolver = (*IdentityRepository)(nil)

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) ResolveSession(ctx context.Context, token uuid.UUID) (model.Caller, error) {
	const query = `
      SELECT u.id, u.group_id
      FROM sessions s
      JOIN users u ON u.id = s.user_id
      WHERE s.token = ? AND s.expires_at > CURRENT_TIMESTAMP
    `
	return r.resolve(ctx, query, token)
}

func (r *IdentityRepository) ResolveUser(ctx context.Context, userID uuid.UUID) (model.Caller, error) {
	const query = `SELECT id, group_id FROM users WHERE id = ?`
	return r.resolve(ctx, query, userID)
}

func (r *IdentityRepository) resolve(ctx context.Context, query string, arg any) (model.Caller, error) {
	var id uuid.UUID
	var group sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&id, &group)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Caller{}, nil
	}
	if err != nil {
		return model.Caller{}, err
	}

	c := model.Caller{UserID: &id}
	if group.Valid {
		c.GroupID = &group.Int64
	}
	return c, nil
}
