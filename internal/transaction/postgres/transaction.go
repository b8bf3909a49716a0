package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/pos-management/internal"
	itemDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/item"
	transactionDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/transaction"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/transaction"
	"gorm.io/gorm"
)

const tenantUsernames = `"Username" IN (SELECT "Username" FROM "Users" WHERE "TenantID" = ?)`

// TransactionRepository implements transaction.Repository using GORM
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &TransactionRepository{db: db}
}

func scoped(db *gorm.DB, scope identity.Scope) *gorm.DB {
	if scope.Isolated {
		return db.Where(tenantUsernames, scope.TenantID)
	}
	return db
}

// Create inserts the master row, then one detail row and one stock decrement per line,
// inside a single database transaction.
func (r *TransactionRepository) Create(ctx context.Context, scope identity.Scope, master *transactionDatamodel.Master, opts transaction.CreateOptions) error {
	details := master.Details
	master.Details = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(master).Error; err != nil {
			return fmt.Errorf("insert transaction master: %w", err)
		}

		for i := range details {
			details[i].TransactionID = master.TransactionID
			if err := tx.Create(&details[i]).Error; err != nil {
				return fmt.Errorf("insert transaction detail %d: %w", i, err)
			}
		}

		for _, d := range details {
			if err := decrementStock(tx, scope, *d.ItemName, *d.Quantity, opts.AllowNegativeStock); err != nil {
				return err
			}
		}
		return nil
	})

	master.Details = details
	if err != nil {
		master.TransactionID = 0
	}
	return err
}

func decrementStock(tx *gorm.DB, scope identity.Scope, itemName string, quantity int, allowNegative bool) error {
	q := tx.Model(&itemDatamodel.Item{}).Where(`"ItemName" = ?`, itemName)
	if scope.Isolated {
		q = q.Where(`"TenantID" = ?`, scope.TenantID)
	}
	if !allowNegative {
		q = q.Where(`"Quantity" >= ?`, quantity)
	}

	res := q.Update("Quantity", gorm.Expr(`"Quantity" - ?`, quantity))
	if res.Error != nil {
		return fmt.Errorf("decrement stock for %q: %w", itemName, res.Error)
	}
	if allowNegative || res.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the item is unknown (a no-op) or it lacks stock.
	var count int64
	exists := tx.Model(&itemDatamodel.Item{}).Where(`"ItemName" = ?`, itemName)
	if scope.Isolated {
		exists = exists.Where(`"TenantID" = ?`, scope.TenantID)
	}
	if err := exists.Count(&count).Error; err != nil {
		return fmt.Errorf("check stock for %q: %w", itemName, err)
	}
	if count > 0 {
		return internal.ErrInsufficientStock.WithDetails(map[string]interface{}{"itemName": itemName, "quantity": quantity})
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context, scope identity.Scope, filter transaction.Filter) ([]transactionDatamodel.Master, error) {
	q := scoped(r.db.WithContext(ctx).Model(&transactionDatamodel.Master{}), scope)

	if filter.StartDate != nil {
		q = q.Where(`"TransactionDate" >= ?`, *filter.StartDate)
	}
	if filter.EndBefore != nil {
		q = q.Where(`"TransactionDate" < ?`, *filter.EndBefore)
	}
	if filter.Username != "" {
		q = q.Where(`LOWER("Username") LIKE LOWER(?)`, "%"+filter.Username+"%")
	}

	var rows []transactionDatamodel.Master
	err := q.Order(`"TransactionDate" DESC`).Order(`"TransactionID" DESC`).Find(&rows).Error
	return rows, err
}

func (r *TransactionRepository) GetWithDetails(ctx context.Context, scope identity.Scope, transactionID int64) (*transactionDatamodel.Master, error) {
	var master transactionDatamodel.Master
	err := scoped(r.db.WithContext(ctx), scope).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"TransactionDetailID"`)
		}).
		Where(`"TransactionID" = ?`, transactionID).
		First(&master).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTransactionNotFound
		}
		return nil, err
	}
	return &master, nil
}
