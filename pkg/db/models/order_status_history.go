package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
)

// OrderStatusHistory is the append-only audit trail of an order's status
// transitions. Rows are never updated or deleted.
type OrderStatusHistory struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index" json:"-"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null" json:"status"`
	Notes     string            `gorm:"column:notes;not null" json:"notes"`
	ChangedBy *uuid.UUID        `gorm:"column:changed_by;type:uuid" json:"changed_by"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
