package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
	"github.com/orderdeskhq/orderdesk-backend/pkg/types"
)

// ItemInput is one requested product/quantity pair.
type ItemInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries everything needed to create an order.
type CreateOrderInput struct {
	UserID          uuid.UUID
	Items           []ItemInput
	ShippingAddress types.Address
	BillingAddress  *types.Address
	Notes           *string
}

// UpdateStatusInput captures a requested status change.
type UpdateStatusInput struct {
	OrderID   uuid.UUID
	Status    enums.OrderStatus
	Notes     *string
	ChangedBy *uuid.UUID
}

// CalculatedItem is one priced line of a totals preview.
type CalculatedItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderCalculation is the totals preview returned without persisting anything.
type OrderCalculation struct {
	Items       []CalculatedItem `json:"items"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Currency    enums.Currency   `json:"currency"`
}

// OrderSummary exposes the aggregated fields returned in the order list.
type OrderSummary struct {
	ID          uuid.UUID         `json:"id"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Currency    enums.Currency    `json:"currency"`
	CreatedAt   time.Time         `json:"created_at"`
	ItemsCount  int               `json:"items_count"`
}

// OrderList wraps the paginated summaries plus the total row count.
type OrderList struct {
	Orders []OrderSummary `json:"orders"`
	Total  int64          `json:"total"`
	Skip   int            `json:"skip"`
	Limit  int            `json:"limit"`
}
