package item

type Item struct {
	ItemID   int64   `gorm:"column:ItemID;primaryKey;autoIncrement"`
	ItemName string  `gorm:"column:ItemName;not null"`
	Category string  `gorm:"column:Category"`
	Quantity int     `gorm:"column:Quantity;not null;default:0"`
	Price    float64 `gorm:"column:Price;type:numeric(10,2);not null;default:0"`
	// TenantID is only populated when tenancy isolation is enabled.
	TenantID *int64 `gorm:"column:TenantID;index"`
}

func (Item) TableName() string { return "Items" }
