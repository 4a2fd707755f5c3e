package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
	"github.com/orderdeskhq/orderdesk-backend/pkg/pagination"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	CreateStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error
	FindOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindUserOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, error)
	CountUserOrders(ctx context.Context, userID uuid.UUID) (int64, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	ListStatusHistory(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusHistory, error)
	DeleteOrderCascade(ctx context.Context, orderID uuid.UUID) error
}

// Service defines the order lifecycle operations exposed to the API layer.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	CalculateOrder(ctx context.Context, items []ItemInput) (*OrderCalculation, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	GetOrder(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	StatusHistory(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID) ([]models.OrderStatusHistory, error)
}
