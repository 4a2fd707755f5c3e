package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orderdeskhq/orderdesk-backend/pkg/db/models"
	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
	"github.com/orderdeskhq/orderdesk-backend/pkg/pagination"
	"github.com/orderdeskhq/orderdesk-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	createOrderTables(t, db)
	return db
}

func createOrderTables(t *testing.T, db *gorm.DB) {
	t.Helper()

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_amount TEXT NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USD',
  shipping_address TEXT NOT NULL,
  billing_address TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  total_price TEXT NOT NULL,
  product_name TEXT NOT NULL,
  product_description TEXT,
  created_at DATETIME
);`
	statusHistory := `
CREATE TABLE IF NOT EXISTS order_status_history (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  notes TEXT NOT NULL,
  changed_by TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(statusHistory).Error)
}

func seedOrder(t *testing.T, repo Repository, userID uuid.UUID, createdAt time.Time, itemCount int) *models.Order {
	t.Helper()

	ctx := context.Background()
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		TotalAmount:     decimal.RequireFromString("19.98"),
		Currency:        enums.CurrencyUSD,
		ShippingAddress: types.Address{Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US", FullName: "Pat Doe"},
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	items := make([]models.OrderItem, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		items = append(items, models.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   int64(i + 1),
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("9.99"),
			TotalPrice:  decimal.RequireFromString("19.98"),
			ProductName: "Widget",
		})
	}
	require.NoError(t, repo.CreateOrderItems(ctx, items))

	require.NoError(t, repo.CreateStatusHistory(ctx, &models.OrderStatusHistory{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Status:    enums.OrderStatusPending,
		Notes:     "Order created",
		ChangedBy: &userID,
		CreatedAt: createdAt,
	}))

	return order
}

func TestRepoFindOrderByIDPreloadsItems(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	userID := uuid.New()
	seeded := seedOrder(t, repo, userID, time.Now().UTC(), 2)

	order, err := repo.FindOrderByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, order.ID)
	assert.Len(t, order.Items, 2)
	assert.True(t, decimal.RequireFromString("19.98").Equal(order.TotalAmount))
	assert.Equal(t, "Springfield", order.ShippingAddress.City)
}

func TestRepoFindUserOrderFiltersOwnership(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	owner := uuid.New()
	seeded := seedOrder(t, repo, owner, time.Now().UTC(), 1)

	order, err := repo.FindUserOrder(context.Background(), seeded.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, order.ID)

	_, err = repo.FindUserOrder(context.Background(), seeded.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepoListUserOrdersNewestFirst(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	userID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	oldest := seedOrder(t, repo, userID, base, 1)
	middle := seedOrder(t, repo, userID, base.Add(10*time.Minute), 1)
	newest := seedOrder(t, repo, userID, base.Add(20*time.Minute), 1)

	// Another user's order must not leak into the list.
	seedOrder(t, repo, uuid.New(), base.Add(30*time.Minute), 1)

	orders, err := repo.ListUserOrders(context.Background(), userID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, newest.ID, orders[0].ID)
	assert.Equal(t, middle.ID, orders[1].ID)
	assert.Equal(t, oldest.ID, orders[2].ID)

	page, err := repo.ListUserOrders(context.Background(), userID, pagination.Params{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, middle.ID, page[0].ID)

	count, err := repo.CountUserOrders(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRepoUpdateOrderStatus(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	seeded := seedOrder(t, repo, uuid.New(), time.Now().UTC(), 1)

	require.NoError(t, repo.UpdateOrderStatus(context.Background(), seeded.ID, enums.OrderStatusConfirmed))

	order, err := repo.FindOrderByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, order.Status)
}

func TestRepoListStatusHistoryChronological(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	seeded := seedOrder(t, repo, uuid.New(), time.Now().UTC().Add(-time.Hour), 1)

	statuses := []enums.OrderStatus{enums.OrderStatusConfirmed, enums.OrderStatusProcessing, enums.OrderStatusShipped}
	for i, status := range statuses {
		require.NoError(t, repo.CreateStatusHistory(context.Background(), &models.OrderStatusHistory{
			ID:        uuid.New(),
			OrderID:   seeded.ID,
			Status:    status,
			Notes:     "Status changed",
			CreatedAt: time.Now().UTC().Add(time.Duration(i-2) * time.Minute),
		}))
	}

	entries, err := repo.ListStatusHistory(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, enums.OrderStatusPending, entries[0].Status)
	assert.Equal(t, enums.OrderStatusShipped, entries[3].Status)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.Before(entries[i-1].CreatedAt))
	}
}

func TestRepoDeleteOrderCascade(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	seeded := seedOrder(t, repo, uuid.New(), time.Now().UTC(), 2)

	require.NoError(t, repo.DeleteOrderCascade(context.Background(), seeded.ID))

	_, err := repo.FindOrderByID(context.Background(), seeded.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var itemCount, historyCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", seeded.ID).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", seeded.ID).Count(&historyCount).Error)
	assert.Zero(t, itemCount)
	assert.Zero(t, historyCount)
}
