package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplemart/storefront/models"
)

func TestRevenueReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)

	customer := createCustomer(t, db, "alice", 0)
	day1 := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	orders := []models.Order{
		{OrderNumber: "o1", CustomerID: customer.ID, Subtotal: 100, TotalDiscount: 10, Total: 90, Status: models.OrderStatusPaid, CreatedAt: day1},
		{OrderNumber: "o2", CustomerID: customer.ID, Subtotal: 50, TotalDiscount: 0, Total: 50, Status: models.OrderStatusPending, CreatedAt: day2},
		// cancelled orders are excluded
		{OrderNumber: "o3", CustomerID: customer.ID, Subtotal: 999, TotalDiscount: 0, Total: 999, Status: models.OrderStatusCancelled, CreatedAt: day2},
	}
	for i := range orders {
		require.NoError(t, db.Create(&orders[i]).Error)
	}

	report, err := svc.Revenue(day1.Add(-time.Hour), day2.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.OrderCount)
	assert.Equal(t, 150.0, report.GrossRevenue)
	assert.Equal(t, 10.0, report.TotalDiscount)
	assert.Equal(t, 140.0, report.NetRevenue)
	require.Len(t, report.Daily, 2)
	assert.Equal(t, int64(1), report.Daily[0].OrderCount)
	assert.Equal(t, 90.0, report.Daily[0].Net)
}

func TestTopProducts(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)

	customer := createCustomer(t, db, "alice", 0)
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	order := models.Order{OrderNumber: "o1", CustomerID: customer.ID, Subtotal: 100, Total: 100, Status: models.OrderStatusPaid, CreatedAt: now}
	require.NoError(t, db.Create(&order).Error)

	items := []models.OrderItem{
		{OrderID: order.ID, ProductID: 1, ProductName: "widget", UnitPrice: 10, Quantity: 5},
		{OrderID: order.ID, ProductID: 2, ProductName: "gadget", UnitPrice: 25, Quantity: 2},
	}
	require.NoError(t, db.Create(&items).Error)

	rows, err := svc.TopProducts(now.Add(-time.Hour), now.Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "widget", rows[0].ProductName)
	assert.Equal(t, int64(5), rows[0].UnitsSold)
	assert.Equal(t, 50.0, rows[0].Revenue)
}

func TestOverviewCounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)

	customer := createCustomer(t, db, "alice", 0)
	createProduct(t, db, "widget", 10, 5)

	loyalty := NewLoyaltyService(db, 10, 2)
	_, err := loyalty.CheckIn(customer.ID, time.Now())
	require.NoError(t, err)
	_, err = loyalty.Redeem(customer.ID, "sticker", 5, time.Now())
	require.NoError(t, err)

	o := svc.Counts(time.Now())
	assert.Equal(t, int64(1), o.CustomerCount)
	assert.Equal(t, int64(1), o.ProductCount)
	assert.Equal(t, int64(1), o.PendingRewards)
	assert.Equal(t, int64(1), o.CheckInsToday)
}
