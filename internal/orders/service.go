package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderdeskhq/orderdesk-backend/internal/products"
	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdeskhq/orderdesk-backend/pkg/errors"
	"github.com/orderdeskhq/orderdesk-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo        Repository
	tx          txRunner
	gateway     products.Gateway
	enforceFlow bool
}

// ServiceOption configures optional service behavior.
type ServiceOption func(*service)

// WithStatusFlowEnforcement rejects status updates that skip the normal
// transition order. Off by default; any valid status is accepted then.
func WithStatusFlowEnforcement(enabled bool) ServiceOption {
	return func(s *service) {
		s.enforceFlow = enabled
	}
}

// NewService builds the order lifecycle service with the required dependencies.
func NewService(repo Repository, tx txRunner, gateway products.Gateway, opts ...ServiceOption) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("product gateway required")
	}

	svc := &service{
		repo:    repo,
		tx:      tx,
		gateway: gateway,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ShippingAddress.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}

	priced, total, err := s.priceItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          input.UserID,
		Status:          enums.OrderStatusPending,
		TotalAmount:     total,
		Currency:        enums.DefaultCurrency,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		Notes:           input.Notes,
	}

	items := make([]models.OrderItem, 0, len(priced))
	for _, line := range priced {
		items = append(items, models.OrderItem{
			ID:                 uuid.New(),
			OrderID:            order.ID,
			ProductID:          line.ProductID,
			Quantity:           line.Quantity,
			UnitPrice:          line.UnitPrice,
			TotalPrice:         line.TotalPrice,
			ProductName:        line.ProductName,
			ProductDescription: line.ProductDescription,
		})
	}

	changedBy := input.UserID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		entry := &models.OrderStatusHistory{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Status:    enums.OrderStatusPending,
			Notes:     "Order created",
			ChangedBy: &changedBy,
		}
		if err := repo.CreateStatusHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create status history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	return order, nil
}

func (s *service) CalculateOrder(ctx context.Context, items []ItemInput) (*OrderCalculation, error) {
	priced, total, err := s.priceItems(ctx, items)
	if err != nil {
		return nil, err
	}

	calc := &OrderCalculation{
		Items:       make([]CalculatedItem, 0, len(priced)),
		TotalAmount: total,
		Currency:    enums.DefaultCurrency,
	}
	for _, line := range priced {
		calc.Items = append(calc.Items, CalculatedItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
		})
	}
	return calc, nil
}

type pricedItem struct {
	ProductID          int64
	Quantity           int
	UnitPrice          decimal.Decimal
	TotalPrice         decimal.Decimal
	ProductName        string
	ProductDescription *string
}

// priceItems validates the requested items, resolves every distinct product
// once, and freezes per-line prices. Any unresolved product fails the whole
// request; partial orders are never priced.
func (s *service) priceItems(ctx context.Context, items []ItemInput) ([]pricedItem, decimal.Decimal, error) {
	zero := decimal.Zero
	if len(items) == 0 {
		return nil, zero, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, zero, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
		}
		if item.Quantity <= 0 {
			return nil, zero, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		ids = append(ids, item.ProductID)
	}

	resolved := s.gateway.GetBatch(ctx, ids)

	priced := make([]pricedItem, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		product, ok := resolved[item.ProductID]
		if !ok {
			return nil, zero, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found or unavailable", item.ProductID))
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		priced = append(priced, pricedItem{
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			UnitPrice:          product.Price,
			TotalPrice:         lineTotal,
			ProductName:        product.Name,
			ProductDescription: product.Description,
		})
		total = total.Add(lineTotal)
	}

	return priced, total, nil
}

func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	params = params.Normalize()

	orders, err := s.repo.ListUserOrders(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	total, err := s.repo.CountUserOrders(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	list := &OrderList{
		Orders: make([]OrderSummary, 0, len(orders)),
		Total:  total,
		Skip:   params.Skip,
		Limit:  params.Limit,
	}
	for _, order := range orders {
		list.Orders = append(list.Orders, OrderSummary{
			ID:          order.ID,
			Status:      order.Status,
			TotalAmount: order.TotalAmount,
			Currency:    order.Currency,
			CreatedAt:   order.CreatedAt,
			ItemsCount:  len(order.Items),
		})
	}
	return list, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var (
		order *models.Order
		err   error
	)
	if userID != nil {
		order, err = s.repo.FindUserOrder(ctx, orderID, *userID)
	} else {
		order, err = s.repo.FindOrderByID(ctx, orderID)
	}
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", input.Status))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if s.enforceFlow && !order.Status.CanTransitionTo(input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot transition from %s to %s", order.Status, input.Status))
		}

		notes := fmt.Sprintf("Status changed from %s to %s", order.Status, input.Status)
		if input.Notes != nil && *input.Notes != "" {
			notes = *input.Notes
		}

		if err := repo.UpdateOrderStatus(ctx, order.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		entry := &models.OrderStatusHistory{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Status:    input.Status,
			Notes:     notes,
			ChangedBy: input.ChangedBy,
		}
		if err := repo.CreateStatusHistory(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create status history")
		}

		// Reload so the caller sees the row as committed, updated_at included.
		refreshed, err := repo.FindOrderByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		updated = refreshed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) StatusHistory(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID) ([]models.OrderStatusHistory, error) {
	// Ownership is checked through the detail lookup first; callers cannot
	// read history for orders they cannot see.
	if _, err := s.GetOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	entries, err := s.repo.ListStatusHistory(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list status history")
	}
	return entries, nil
}
