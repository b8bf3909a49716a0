package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/pos-management/internal/auth"
	userDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
)

const (
	selectUserWithTenant = `SELECT u."UserID", u."Username", u."PasswordHash", u."TenantID", t."TenantName"
		FROM "Users" u
		JOIN "Tenants" t ON u."TenantID" = t."TenantID"
		WHERE u."Username" = $1`

	selectRoleNames = `SELECT r."RoleName"
		FROM "Roles" r
		JOIN "UserRoles" ur ON r."RoleID" = ur."RoleID"
		WHERE ur."UserID" = $1
		ORDER BY r."RoleName"`

	selectPermissionNames = `SELECT DISTINCT p."PermissionName"
		FROM "Permissions" p
		JOIN "RolePermissions" rp ON p."PermissionID" = rp."PermissionID"
		JOIN "UserRoles" ur ON rp."RoleID" = ur."RoleID"
		WHERE ur."UserID" = $1
		ORDER BY p."PermissionName"`

	selectUsers = `SELECT "UserID", "Username", "PasswordHash", "TenantID" FROM "Users" ORDER BY "UserID"`

	updatePasswordHash = `UPDATE "Users" SET "PasswordHash" = $1 WHERE "UserID" = $2`
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

var _ auth.RepositoryAPI = (*Repository)(nil)

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*userDatamodel.UserWithTenant, error) {
	var row userDatamodel.UserWithTenant
	if err := r.db.GetContext(ctx, &row, selectUserWithTenant, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) GetRoleNames(ctx context.Context, userID int64) ([]string, error) {
	roles := []string{}
	if err := r.db.SelectContext(ctx, &roles, selectRoleNames, userID); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *Repository) GetPermissionNames(ctx context.Context, userID int64) ([]string, error) {
	permissions := []string{}
	if err := r.db.SelectContext(ctx, &permissions, selectPermissionNames, userID); err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]userDatamodel.User, error) {
	var users []userDatamodel.User
	if err := r.db.SelectContext(ctx, &users, selectUsers); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	_, err := r.db.ExecContext(ctx, updatePasswordHash, hash, userID)
	return err
}
