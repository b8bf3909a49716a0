package transaction

import (
	"fmt"

	errors "github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/common/validation"
)

type LineItemDTO struct {
	ItemName *string  `json:"itemName"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
	Amount   *float64 `json:"amount"`
}

// CreateTransactionDTO is the POST /api/transactions body. The username always
// comes from the session.
type CreateTransactionDTO struct {
	TransactionDate *string       `json:"transactionDate"`
	TotalAmount     *float64      `json:"totalAmount"`
	Discount        *float64      `json:"discount"`
	NetAmount       *float64      `json:"netAmount"`
	Items           []LineItemDTO `json:"items"`
}

func (d CreateTransactionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("transactionDate", d.TransactionDate).Required().Custom(func(value interface{}) *errors.AppError {
		s, _ := value.(*string)
		if s == nil || *s == "" {
			return nil
		}
		if _, err := ParseDate(*s); err != nil {
			return errors.NewValidationFieldError("transactionDate", "transactionDate must be a date", errors.ErrCodeInvalidDate)
		}
		return nil
	})
	v.Field("totalAmount", d.TotalAmount).Required()
	v.Field("discount", d.Discount).Required()
	v.Field("netAmount", d.NetAmount).Required()
	v.Field("items", d.Items).Custom(func(value interface{}) *errors.AppError {
		if d.Items == nil {
			return errors.NewValidationFieldError("items", "items is required", errors.ErrCodeValidationFailed)
		}
		return nil
	})

	for i, li := range d.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		v.Field(prefix+"itemName", li.ItemName).Required().MaxLength(100)
		v.Field(prefix+"quantity", li.Quantity).Required()
		v.Field(prefix+"price", li.Price).Required()
		v.Field(prefix+"amount", li.Amount).Required()
	}
	return v.Validate()
}
