package dashboard

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
)

type Options struct {
	Isolated bool
	// ActiveUsers is reported as is unless CountSessions is set.
	ActiveUsers   int
	CountSessions bool
}

type Service struct {
	repo     Repository
	sessions SessionCounter
	logger   *slog.Logger
	opts     Options
}

func NewService(repo Repository, sessions SessionCounter, logger *slog.Logger, opts Options) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		opts:     opts,
	}
}

func (s *Service) Stats(ctx context.Context, caller identity.Identity) (Stats, error) {
	scope := identity.ScopeFor(caller, s.opts.Isolated)

	items, err := s.repo.CountItems(ctx, scope)
	if err != nil {
		return Stats{}, s.fail(err, "items")
	}
	transactions, err := s.repo.CountTransactions(ctx, scope)
	if err != nil {
		return Stats{}, s.fail(err, "transactions")
	}
	revenue, err := s.repo.TotalRevenue(ctx, scope)
	if err != nil {
		return Stats{}, s.fail(err, "revenue")
	}

	return Stats{
		TotalItems:        items,
		TotalTransactions: transactions,
		TotalRevenue:      revenue,
		ActiveUsers:       s.activeUsers(ctx),
	}, nil
}

func (s *Service) activeUsers(ctx context.Context) int {
	if !s.opts.CountSessions || s.sessions == nil {
		return s.opts.ActiveUsers
	}
	n, err := s.sessions.ActiveSessions(ctx)
	if err != nil {
		s.logger.Warn("failed to count sessions, using configured value", "error", err)
		return s.opts.ActiveUsers
	}
	return n
}

func (s *Service) fail(err error, stat string) error {
	s.logger.Error("failed to compute dashboard stats", "stat", stat, "error", err)
	return internal.NewInternalError("Failed to fetch dashboard stats", err)
}
