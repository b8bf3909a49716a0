package item

import (
	"context"

	itemDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/item"
	"github.com/frahmantamala/pos-management/internal/core/identity"
)

// Item is the wire shape of an inventory row.
type Item struct {
	ItemID   int64   `json:"ItemID"`
	ItemName string  `json:"ItemName"`
	Category string  `json:"Category"`
	Quantity int     `json:"Quantity"`
	Price    float64 `json:"Price"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Repository interface {
	List(ctx context.Context, scope identity.Scope) ([]itemDatamodel.Item, error)
	Create(ctx context.Context, item *itemDatamodel.Item) error
	Update(ctx context.Context, scope identity.Scope, item *itemDatamodel.Item) error
	Delete(ctx context.Context, scope identity.Scope, itemID int64) error
	FindLowStock(ctx context.Context, names []string, threshold int) ([]itemDatamodel.Item, error)
}

func FromDataModel(m itemDatamodel.Item) Item {
	return Item{
		ItemID:   m.ItemID,
		ItemName: m.ItemName,
		Category: m.Category,
		Quantity: m.Quantity,
		Price:    m.Price,
	}
}
