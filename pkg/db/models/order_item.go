package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one product/quantity entry within an order. Prices and the
// product name/description are a frozen snapshot taken at order time; the
// product id points at the external catalog and is not a local foreign key.
type OrderItem struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID            uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"-"`
	ProductID          int64           `gorm:"column:product_id;not null;index" json:"product_id"`
	Quantity           int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unit_price"`
	TotalPrice         decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null" json:"total_price"`
	ProductName        string          `gorm:"column:product_name;not null" json:"product_name"`
	ProductDescription *string         `gorm:"column:product_description" json:"product_description"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
