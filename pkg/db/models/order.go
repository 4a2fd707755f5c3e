package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
	"github.com/orderdeskhq/orderdesk-backend/pkg/types"
)

// Order is a user's purchase record with line items, totals, and addresses.
// The total is computed from its items at creation time and never set by callers.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Status          enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending';index" json:"status"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(10,2);not null" json:"total_amount"`
	Currency        enums.Currency       `gorm:"column:currency;type:text;not null;default:'USD'" json:"currency"`
	ShippingAddress types.Address        `gorm:"column:shipping_address;type:jsonb;serializer:json" json:"shipping_address"`
	BillingAddress  *types.Address       `gorm:"column:billing_address;type:jsonb;serializer:json" json:"billing_address"`
	Notes           *string              `gorm:"column:notes" json:"notes"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	StatusHistory   []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName pins the table name used by the migrations.
func (Order) TableName() string {
	return "orders"
}
