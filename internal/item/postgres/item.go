package postgres

import (
	"context"

	itemDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/item"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/item"
	"gorm.io/gorm"
)

// ItemRepository implements item.Repository using GORM
type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) item.Repository {
	return &ItemRepository{db: db}
}

func scoped(db *gorm.DB, scope identity.Scope) *gorm.DB {
	if scope.Isolated {
		return db.Where(`"TenantID" = ?`, scope.TenantID)
	}
	return db
}

func (r *ItemRepository) List(ctx context.Context, scope identity.Scope) ([]itemDatamodel.Item, error) {
	var items []itemDatamodel.Item
	err := scoped(r.db.WithContext(ctx), scope).
		Order(`"ItemID"`).
		Find(&items).Error
	return items, err
}

func (r *ItemRepository) Create(ctx context.Context, it *itemDatamodel.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

// Update overwrites every editable column. Zero rows affected is not an error.
func (r *ItemRepository) Update(ctx context.Context, scope identity.Scope, it *itemDatamodel.Item) error {
	return scoped(r.db.WithContext(ctx).Model(&itemDatamodel.Item{}), scope).
		Where(`"ItemID" = ?`, it.ItemID).
		Updates(map[string]interface{}{
			"ItemName": it.ItemName,
			"Category": it.Category,
			"Quantity": it.Quantity,
			"Price":    it.Price,
		}).Error
}

func (r *ItemRepository) Delete(ctx context.Context, scope identity.Scope, itemID int64) error {
	return scoped(r.db.WithContext(ctx), scope).
		Where(`"ItemID" = ?`, itemID).
		Delete(&itemDatamodel.Item{}).Error
}

// FindLowStock returns the named items whose quantity is at or below threshold.
func (r *ItemRepository) FindLowStock(ctx context.Context, names []string, threshold int) ([]itemDatamodel.Item, error) {
	var items []itemDatamodel.Item
	if len(names) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).
		Where(`"ItemName" IN ? AND "Quantity" <= ?`, names, threshold).
		Order(`"ItemName"`).
		Find(&items).Error
	return items, err
}
