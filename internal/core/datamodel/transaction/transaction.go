package transaction

import "time"

// Master and Detail mirror TransactionMaster/TransactionDetails. Numeric columns are
// nullable in the schema, hence the pointers.

type Master struct {
	TransactionID   int64      `gorm:"column:TransactionID;primaryKey;autoIncrement"`
	TransactionDate *time.Time `gorm:"column:TransactionDate;index"`
	Username        *string    `gorm:"column:Username;index"`
	TotalAmount     *float64   `gorm:"column:TotalAmount;type:numeric(10,2)"`
	Discount        *float64   `gorm:"column:Discount;type:numeric(10,2)"`
	NetAmount       *float64   `gorm:"column:NetAmount;type:numeric(10,2)"`
	Details         []Detail   `gorm:"foreignKey:TransactionID;references:TransactionID"`
}

func (Master) TableName() string { return "TransactionMaster" }

type Detail struct {
	TransactionDetailID int64    `gorm:"column:TransactionDetailID;primaryKey;autoIncrement"`
	TransactionID       int64    `gorm:"column:TransactionID;not null;index"`
	ItemName            *string  `gorm:"column:ItemName"`
	Quantity            *int     `gorm:"column:Quantity"`
	Price               *float64 `gorm:"column:Price;type:numeric(10,2)"`
	Amount              *float64 `gorm:"column:Amount;type:numeric(10,2)"`
}

func (Detail) TableName() string { return "TransactionDetails" }
