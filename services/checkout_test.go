package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplemart/storefront/models"
)

func TestCommitOrderWithPromotionAndVoucher(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, DiscountResolver{Mode: StackAdditive})

	now := time.Now()
	customer := createCustomer(t, db, "alice", 0)
	product := createProduct(t, db, "widget", 100, 5)
	promo := createPromotion(t, db, "summer", 10, 2, now.Add(-time.Hour), now.Add(time.Hour))
	voucher := createVoucher(t, db, save10())

	order, err := svc.CommitOrder(customer.ID, []models.CartItem{{ProductID: product.ID, Quantity: 2}}, &promo.ID, "SAVE10", now)
	require.NoError(t, err)

	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 20.0, order.PromotionDiscount)
	assert.Equal(t, 20.0, order.VoucherDiscount)
	assert.Equal(t, 40.0, order.TotalDiscount)
	assert.Equal(t, 160.0, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.NotNil(t, order.PromotionID)
	require.NotNil(t, order.VoucherID)

	// stock consumed
	var p models.Product
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.Equal(t, 3, p.Stock)

	// global counter consumed
	var v models.Voucher
	require.NoError(t, db.First(&v, voucher.ID).Error)
	assert.Equal(t, 1, v.UsedCount)

	// one ledger row per discount
	var ledger int64
	require.NoError(t, db.Model(&models.UserPromotion{}).Where("customer_id = ?", customer.ID).Count(&ledger).Error)
	assert.Equal(t, int64(2), ledger)

	var lines []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, "widget", lines[0].ProductName)
	assert.Equal(t, 100.0, lines[0].UnitPrice)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCommitOrderVoucherGlobalCapLastUse(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, DiscountResolver{Mode: StackAdditive})

	now := time.Now()
	alice := createCustomer(t, db, "alice", 0)
	bob := createCustomer(t, db, "bob", 0)
	product := createProduct(t, db, "widget", 150, 10)

	v := save10()
	v.UsedCount = 99
	voucher := createVoucher(t, db, v)

	// the 100th use succeeds
	_, err := svc.CommitOrder(alice.ID, []models.CartItem{{ProductID: product.ID, Quantity: 1}}, nil, "SAVE10", now)
	require.NoError(t, err)

	// the 101st is rejected, counter stays at the cap
	_, err = svc.CommitOrder(bob.ID, []models.CartItem{{ProductID: product.ID, Quantity: 1}}, nil, "SAVE10", now)
	assert.ErrorIs(t, err, ErrVoucherGlobalLimitReached)

	var got models.Voucher
	require.NoError(t, db.First(&got, voucher.ID).Error)
	assert.Equal(t, 100, got.UsedCount)

	// the failed commit wrote nothing
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Where("customer_id = ?", bob.ID).Count(&orders).Error)
	assert.Equal(t, int64(0), orders)
}

func TestCommitOrderPerUserVoucherCap(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, DiscountResolver{Mode: StackAdditive})

	now := time.Now()
	customer := createCustomer(t, db, "alice", 0)
	product := createProduct(t, db, "widget", 150, 10)
	createVoucher(t, db, save10())

	_, err := svc.CommitOrder(customer.ID, []models.CartItem{{ProductID: product.ID, Quantity: 1}}, nil, "SAVE10", now)
	require.NoError(t, err)

	_, err = svc.CommitOrder(customer.ID, []models.CartItem{{ProductID: product.ID, Quantity: 1}}, nil, "SAVE10", now)
	assert.ErrorIs(t, err, ErrVoucherUserLimitReached)
}

func TestCommitOrderRollsBackOnInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, DiscountResolver{Mode: StackAdditive})

	now := time.Now()
	customer := createCustomer(t, db, "alice", 0)
	product := createProduct(t, db, "widget", 150, 1)
	voucher := createVoucher(t, db, save10())

	_, err := svc.CommitOrder(customer.ID, []models.CartItem{{ProductID: product.ID, Quantity: 2}}, nil, "SAVE10", now)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// everything the transaction touched is rolled back
	var v models.Voucher
	require.NoError(t, db.First(&v, voucher.ID).Error)
	assert.Equal(t, 0, v.UsedCount)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(0), orders)

	var ledger int64
	require.NoError(t, db.Model(&models.UserPromotion{}).Count(&ledger).Error)
	assert.Equal(t, int64(0), ledger)
}

func TestCommitOrderExpiredVoucherRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, DiscountResolver{Mode: StackAdditive})

	now := time.Now()
	customer := createCustomer(t, db, "alice", 0)
	product := createProduct(t, db, "widget", 150, 5)

	v := save10()
	v.EndDate = timePtr(now.Add(-time.Minute))
	createVoucher(t, db, v)

	_, err := svc.CommitOrder(customer.ID, []models.CartItem{{ProductID: product.ID, Quantity: 1}}, nil, "SAVE10", now)
	assert.ErrorIs(t, err, ErrVoucherExpired)
}

func TestCommitOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, DiscountResolver{Mode: StackAdditive})

	customer := createCustomer(t, db, "alice", 0)

	_, err := svc.CommitOrder(customer.ID, nil, nil, "", time.Now())
	assert.True(t, IsValidation(err))

	_, err = svc.CommitOrder(customer.ID, []models.CartItem{{ProductID: 1, Quantity: 0}}, nil, "", time.Now())
	assert.True(t, IsValidation(err))
}

func TestQuoteOrderReportsInapplicableDiscounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, DiscountResolver{Mode: StackAdditive})

	now := time.Now()
	customer := createCustomer(t, db, "alice", 0)
	product := createProduct(t, db, "widget", 40, 5)
	promo := createPromotion(t, db, "over", 10, 1, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	createVoucher(t, db, save10())

	// promotion is expired and the subtotal misses the voucher's min order:
	// the quote still succeeds, with reasons and zero discounts
	quote, err := svc.QuoteOrder(customer.ID, []models.CartItem{{ProductID: product.ID, Quantity: 1}}, &promo.ID, "SAVE10", now)
	require.NoError(t, err)

	assert.Equal(t, 40.0, quote.Subtotal)
	require.NotNil(t, quote.Promotion)
	assert.False(t, quote.Promotion.IsApplicable)
	assert.Equal(t, "promotion_expired", quote.Promotion.Reason)
	require.NotNil(t, quote.Voucher)
	assert.False(t, quote.Voucher.IsApplicable)
	assert.Equal(t, "min_order_value_not_met", quote.Voucher.Reason)
	assert.Equal(t, 0.0, quote.Breakdown.TotalDiscount)
	assert.Equal(t, 40.0, quote.Breakdown.FinalTotal)

	// dry run: nothing was written
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(0), orders)
}

func TestQuoteOrderSkipsDiscountsWhenNoneSelected(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckoutService(db, DiscountResolver{Mode: StackAdditive})

	customer := createCustomer(t, db, "alice", 0)
	product := createProduct(t, db, "widget", 25, 5)

	quote, err := svc.QuoteOrder(customer.ID, []models.CartItem{{ProductID: product.ID, Quantity: 2}}, nil, "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 50.0, quote.Subtotal)
	assert.Nil(t, quote.Promotion)
	assert.Nil(t, quote.Voucher)
	assert.Equal(t, 50.0, quote.Breakdown.FinalTotal)
}
