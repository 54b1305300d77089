package mariadb

import (
	"context"
	"database/sql"

	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
)

// AccessRepository answers permission checks from the groups and
// permissions tables.
type AccessRepository struct {
	db *sql.DB
}

// compile-time check: *AccessRepository must satisfy port.AccessControl
var _ port.AccessControl = (*AccessRepository)(nil)

func NewAccessRepository(db *sql.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

// Can is true for members of a superuser group, or when a permission row
// exists for the caller's group. <=> matches the NULL group of anonymous
// callers against rows granted to anonymous users.
func (r *AccessRepository) Can(ctx context.Context, caller model.Caller, op model.Operation, res model.Resource) (bool, error) {
	const query = `
      SELECT EXISTS (
        SELECT 1 FROM ` + "`groups`" + ` g WHERE g.id <=> ? AND g.superuser = TRUE
        UNION ALL
        SELECT 1 FROM permissions p WHERE p.group_id <=> ? AND p.operation = ? AND p.resource = ?
      )
    `
	var ok bool
	err := r.db.QueryRowContext(ctx, query, caller.GroupID, caller.GroupID, op, res).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}
