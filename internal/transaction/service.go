package transaction

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/pos-management/internal"
	transactionDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/transaction"
	"github.com/frahmantamala/pos-management/internal/core/events"
	"github.com/frahmantamala/pos-management/internal/core/identity"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Options struct {
	Isolated           bool
	AllowNegativeStock bool
}

type Service struct {
	repo      Repository
	publisher EventPublisher
	logger    *slog.Logger
	opts      Options
}

func NewService(repo Repository, publisher EventPublisher, logger *slog.Logger, opts Options) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		opts:      opts,
	}
}

// ListTransactions returns the filtered transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, caller identity.Identity, filter Filter) ([]Transaction, error) {
	rows, err := s.repo.List(ctx, identity.ScopeFor(caller, s.opts.Isolated), filter)
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err, "tenant_id", caller.TenantID)
		return nil, internal.NewInternalError("Failed to fetch transactions", err)
	}

	out := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

// CreateTransaction records the sale and its line items and decrements stock, all or nothing.
func (s *Service) CreateTransaction(ctx context.Context, caller identity.Identity, dto CreateTransactionDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	date, _ := ParseDate(*dto.TransactionDate)
	username := caller.Username
	master := &transactionDatamodel.Master{
		TransactionDate: &date,
		Username:        &username,
		TotalAmount:     dto.TotalAmount,
		Discount:        dto.Discount,
		NetAmount:       dto.NetAmount,
		Details:         make([]transactionDatamodel.Detail, 0, len(dto.Items)),
	}
	lines := make([]events.SoldLine, 0, len(dto.Items))
	for _, li := range dto.Items {
		master.Details = append(master.Details, transactionDatamodel.Detail{
			ItemName: li.ItemName,
			Quantity: li.Quantity,
			Price:    li.Price,
			Amount:   li.Amount,
		})
		lines = append(lines, events.SoldLine{ItemName: *li.ItemName, Quantity: *li.Quantity})
	}

	err := s.repo.Create(ctx, identity.ScopeFor(caller, s.opts.Isolated), master, CreateOptions{
		AllowNegativeStock: s.opts.AllowNegativeStock,
	})
	if err != nil {
		if errors.Is(err, internal.ErrInsufficientStock) {
			s.logger.Info("transaction rejected: insufficient stock", "username", username, "error", err)
			return 0, err
		}
		s.logger.Error("failed to create transaction", "error", err, "username", username)
		return 0, internal.NewInternalError("Failed to create transaction", err)
	}

	s.logger.Info("transaction created",
		"transaction_id", master.TransactionID,
		"username", username,
		"lines", len(master.Details))

	if s.publisher != nil {
		event := events.NewTransactionCreatedEvent(master.TransactionID, username, caller.TenantID, *dto.NetAmount, lines)
		if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
			s.logger.Warn("failed to publish transaction event", "transaction_id", master.TransactionID, "error", err)
		}
	}

	return master.TransactionID, nil
}

// GetTransaction loads one transaction with its line items.
func (s *Service) GetTransaction(ctx context.Context, caller identity.Identity, transactionID int64) (*Detailed, error) {
	row, err := s.repo.GetWithDetails(ctx, identity.ScopeFor(caller, s.opts.Isolated), transactionID)
	if err != nil {
		if errors.Is(err, internal.ErrTransactionNotFound) {
			return nil, err
		}
		s.logger.Error("failed to load transaction", "error", err, "transaction_id", transactionID)
		return nil, internal.NewInternalError("Failed to load transaction", err)
	}

	d := DetailedFromDataModel(*row)
	return &d, nil
}

// ReplayCreated publishes transaction.created again for a stored transaction.
func (s *Service) ReplayCreated(ctx context.Context, transactionID int64) error {
	row, err := s.repo.GetWithDetails(ctx, identity.Unscoped(), transactionID)
	if err != nil {
		return err
	}
	if s.publisher == nil {
		return nil
	}

	d := DetailedFromDataModel(*row)
	lines := make([]events.SoldLine, 0, len(d.Items))
	for _, li := range d.Items {
		lines = append(lines, events.SoldLine{ItemName: li.ItemName, Quantity: li.Quantity})
	}

	event := events.NewTransactionCreatedEvent(d.TransactionID, d.Username, 0, d.NetAmount, lines)
	s.logger.Info("replaying transaction event", "transaction_id", d.TransactionID, "event_id", event.EventID())
	return s.publisher.Publish(ctx, event)
}
