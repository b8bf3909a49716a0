package postgres

import (
	"context"

	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/dashboard"
	"github.com/jmoiron/sqlx"
)

const (
	countItems        = `SELECT COUNT(*) FROM "Items"`
	countItemsTenant  = `SELECT COUNT(*) FROM "Items" WHERE "TenantID" = $1`
	countTransactions = `SELECT COUNT(*) FROM "TransactionMaster"`
	sumNetAmount      = `SELECT COALESCE(SUM("NetAmount"), 0) FROM "TransactionMaster"`

	tenantUsernames = ` WHERE "Username" IN (SELECT "Username" FROM "Users" WHERE "TenantID" = $1)`
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

var _ dashboard.Repository = (*Repository)(nil)

func (r *Repository) CountItems(ctx context.Context, scope identity.Scope) (int64, error) {
	if scope.Isolated {
		return r.scalarInt(ctx, countItemsTenant, scope.TenantID)
	}
	return r.scalarInt(ctx, countItems)
}

func (r *Repository) CountTransactions(ctx context.Context, scope identity.Scope) (int64, error) {
	if scope.Isolated {
		return r.scalarInt(ctx, countTransactions+tenantUsernames, scope.TenantID)
	}
	return r.scalarInt(ctx, countTransactions)
}

func (r *Repository) TotalRevenue(ctx context.Context, scope identity.Scope) (float64, error) {
	query, args := sumNetAmount, []interface{}{}
	if scope.Isolated {
		query, args = sumNetAmount+tenantUsernames, []interface{}{scope.TenantID}
	}

	var total float64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repository) scalarInt(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}
