package dashboard

import (
	"context"

	"github.com/frahmantamala/pos-management/internal/core/identity"
)

// Stats is the GET /api/dashboard-stats body.
type Stats struct {
	TotalItems        int64   `json:"totalItems"`
	TotalTransactions int64   `json:"totalTransactions"`
	TotalRevenue      float64 `json:"totalRevenue"`
	ActiveUsers       int     `json:"activeUsers"`
}

type Repository interface {
	CountItems(ctx context.Context, scope identity.Scope) (int64, error)
	CountTransactions(ctx context.Context, scope identity.Scope) (int64, error)
	TotalRevenue(ctx context.Context, scope identity.Scope) (float64, error)
}

// SessionCounter reports how many sessions are currently live.
type SessionCounter interface {
	ActiveSessions(ctx context.Context) (int, error)
}
