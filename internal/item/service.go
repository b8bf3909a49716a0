package item

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/pos-management/internal"
	itemDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/item"
	"github.com/frahmantamala/pos-management/internal/core/identity"
)

type Service struct {
	repo     Repository
	logger   *slog.Logger
	isolated bool
}

func NewService(repo Repository, logger *slog.Logger, isolated bool) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		isolated: isolated,
	}
}

func (s *Service) ListItems(ctx context.Context, caller identity.Identity) ([]Item, error) {
	rows, err := s.repo.List(ctx, identity.ScopeFor(caller, s.isolated))
	if err != nil {
		s.logger.Error("failed to list items", "error", err, "tenant_id", caller.TenantID)
		return nil, internal.NewInternalError("Failed to fetch items", err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row))
	}
	return items, nil
}

func (s *Service) CreateItem(ctx context.Context, caller identity.Identity, dto ItemDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	row := &itemDatamodel.Item{
		ItemName: *dto.ItemName,
		Category: *dto.Category,
		Quantity: *dto.Quantity,
		Price:    *dto.Price,
	}
	if s.isolated {
		tenantID := caller.TenantID
		row.TenantID = &tenantID
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create item", "error", err, "item_name", row.ItemName)
		return internal.NewInternalError("Failed to create item", err)
	}

	s.logger.Info("item created", "item_id", row.ItemID, "item_name", row.ItemName, "user", caller.Username)
	return nil
}

// UpdateItem overwrites all fields. A missing id is not an error.
func (s *Service) UpdateItem(ctx context.Context, caller identity.Identity, itemID int64, dto ItemDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	row := &itemDatamodel.Item{
		ItemID:   itemID,
		ItemName: *dto.ItemName,
		Category: *dto.Category,
		Quantity: *dto.Quantity,
		Price:    *dto.Price,
	}
	if err := s.repo.Update(ctx, identity.ScopeFor(caller, s.isolated), row); err != nil {
		s.logger.Error("failed to update item", "error", err, "item_id", itemID)
		return internal.NewInternalError("Failed to update item", err)
	}

	s.logger.Info("item updated", "item_id", itemID, "user", caller.Username)
	return nil
}

func (s *Service) DeleteItem(ctx context.Context, caller identity.Identity, itemID int64) error {
	if err := s.repo.Delete(ctx, identity.ScopeFor(caller, s.isolated), itemID); err != nil {
		s.logger.Error("failed to delete item", "error", err, "item_id", itemID)
		return internal.NewInternalError("Failed to delete item", err)
	}

	s.logger.Info("item deleted", "item_id", itemID, "user", caller.Username)
	return nil
}
