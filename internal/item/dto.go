package item

import (
	errors "github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/common/validation"
)

// ItemDTO is the body of create and update requests. Quantity and price are
// not range checked.
type ItemDTO struct {
	ItemName *string  `json:"itemName"`
	Category *string  `json:"category"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

func (d ItemDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("itemName", d.ItemName).Required().MaxLength(100)
	v.Field("category", d.Category).Required().MaxLength(50)
	v.Field("quantity", d.Quantity).Required()
	v.Field("price", d.Price).Required()
	return v.Validate()
}
