package transaction

import (
	"context"
	"encoding/json"
	"time"

	transactionDatamodel "github.com/frahmantamala/pos-management/internal/core/datamodel/transaction"
	"github.com/frahmantamala/pos-management/internal/core/identity"
)

// WireDateLayout is how TransactionDate is rendered in JSON.
const WireDateLayout = "2006-01-02T15:04:05"

// Transaction is one master row. Null numerics are read as zero.
type Transaction struct {
	TransactionID   int64
	TransactionDate *time.Time
	Username        string
	TotalAmount     float64
	Discount        float64
	NetAmount       float64
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	var date *string
	if t.TransactionDate != nil {
		s := t.TransactionDate.Format(WireDateLayout)
		date = &s
	}
	return json.Marshal(struct {
		TransactionID   int64   `json:"TransactionID"`
		TransactionDate *string `json:"TransactionDate"`
		Username        string  `json:"Username"`
		TotalAmount     float64 `json:"TotalAmount"`
		Discount        float64 `json:"Discount"`
		NetAmount       float64 `json:"NetAmount"`
	}{
		TransactionID:   t.TransactionID,
		TransactionDate: date,
		Username:        t.Username,
		TotalAmount:     t.TotalAmount,
		Discount:        t.Discount,
		NetAmount:       t.NetAmount,
	})
}

type LineItem struct {
	ItemName string
	Quantity int
	Price    float64
	Amount   float64
}

// Detailed is a transaction together with its line items.
type Detailed struct {
	Transaction
	Items []LineItem
}

type CreateResponse struct {
	Message       string `json:"message"`
	TransactionID int64  `json:"transactionID"`
}

type CreateOptions struct {
	AllowNegativeStock bool
}

type Repository interface {
	Create(ctx context.Context, scope identity.Scope, master *transactionDatamodel.Master, opts CreateOptions) error
	List(ctx context.Context, scope identity.Scope, filter Filter) ([]transactionDatamodel.Master, error)
	GetWithDetails(ctx context.Context, scope identity.Scope, transactionID int64) (*transactionDatamodel.Master, error)
}

func FromDataModel(m transactionDatamodel.Master) Transaction {
	t := Transaction{
		TransactionID:   m.TransactionID,
		TransactionDate: m.TransactionDate,
		TotalAmount:     floatOrZero(m.TotalAmount),
		Discount:        floatOrZero(m.Discount),
		NetAmount:       floatOrZero(m.NetAmount),
	}
	if m.Username != nil {
		t.Username = *m.Username
	}
	return t
}

func DetailedFromDataModel(m transactionDatamodel.Master) Detailed {
	d := Detailed{
		Transaction: FromDataModel(m),
		Items:       make([]LineItem, 0, len(m.Details)),
	}
	for _, row := range m.Details {
		li := LineItem{
			Price:  floatOrZero(row.Price),
			Amount: floatOrZero(row.Amount),
		}
		if row.ItemName != nil {
			li.ItemName = *row.ItemName
		}
		if row.Quantity != nil {
			li.Quantity = *row.Quantity
		}
		d.Items = append(d.Items, li)
	}
	return d
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
