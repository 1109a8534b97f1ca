package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplemart/storefront/models"
)

func save10() models.Voucher {
	return models.Voucher{
		Code:                "SAVE10",
		DiscountType:        models.DiscountTypePercentage,
		DiscountValue:       10,
		MinOrderValue:       floatPtr(100),
		MaxUsage:            100,
		DefaultUserMaxUsage: 1,
	}
}

func TestEvaluateVoucherPercentage(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	customer := createCustomer(t, db, "alice", 0)
	createVoucher(t, db, save10())

	elig, err := svc.Evaluate(customer.ID, "SAVE10", 200, time.Now())
	require.NoError(t, err)
	assert.True(t, elig.IsApplicable)
	assert.Equal(t, 20.0, elig.DiscountAmount)
	assert.Equal(t, 0, elig.UsedCountByUser)
}

func TestEvaluateVoucherFixedCappedAtSubtotal(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	customer := createCustomer(t, db, "alice", 0)
	createVoucher(t, db, models.Voucher{
		Code:                "FLAT50",
		DiscountType:        models.DiscountTypeFixed,
		DiscountValue:       50,
		MaxUsage:            10,
		DefaultUserMaxUsage: 1,
	})

	elig, err := svc.Evaluate(customer.ID, "FLAT50", 30, time.Now())
	require.NoError(t, err)
	assert.True(t, elig.IsApplicable)
	assert.Equal(t, 30.0, elig.DiscountAmount)
}

func TestEvaluateVoucherMinOrderNotMet(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	customer := createCustomer(t, db, "alice", 0)
	createVoucher(t, db, save10())

	elig, err := svc.Evaluate(customer.ID, "SAVE10", 99.99, time.Now())
	require.NoError(t, err)
	assert.False(t, elig.IsApplicable)
	assert.Equal(t, "min_order_value_not_met", elig.Reason)
	assert.Equal(t, 0.0, elig.DiscountAmount)
}

func TestEvaluateVoucherExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	customer := createCustomer(t, db, "alice", 0)
	v := save10()
	v.EndDate = timePtr(time.Now().Add(-time.Hour))
	createVoucher(t, db, v)

	elig, err := svc.Evaluate(customer.ID, "SAVE10", 200, time.Now())
	require.NoError(t, err)
	assert.False(t, elig.IsApplicable)
	assert.Equal(t, "voucher_expired", elig.Reason)
	assert.Equal(t, 0.0, elig.DiscountAmount)
}

func TestEvaluateVoucherGlobalLimitReached(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	customer := createCustomer(t, db, "alice", 0)
	v := save10()
	v.UsedCount = 100
	createVoucher(t, db, v)

	elig, err := svc.Evaluate(customer.ID, "SAVE10", 200, time.Now())
	require.NoError(t, err)
	assert.False(t, elig.IsApplicable)
	assert.Equal(t, "voucher_global_limit_reached", elig.Reason)
}

func TestEvaluateVoucherUserLimitReached(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	customer := createCustomer(t, db, "alice", 0)
	voucher := createVoucher(t, db, save10())

	require.NoError(t, db.Create(&models.UserPromotion{
		CustomerID: customer.ID,
		VoucherID:  &voucher.ID,
		OrderID:    1,
		UsedDate:   time.Now(),
	}).Error)

	elig, err := svc.Evaluate(customer.ID, "SAVE10", 200, time.Now())
	require.NoError(t, err)
	assert.False(t, elig.IsApplicable)
	assert.Equal(t, "voucher_user_limit_reached", elig.Reason)
	assert.Equal(t, 1, elig.UsedCountByUser)
}

func TestEvaluateVoucherUnknownCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	customer := createCustomer(t, db, "alice", 0)

	_, err := svc.Evaluate(customer.ID, "NOPE", 200, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEvaluateVoucherCodeIsCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	customer := createCustomer(t, db, "alice", 0)
	createVoucher(t, db, save10())

	_, err := svc.Evaluate(customer.ID, "save10", 200, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEvaluateVoucherValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoucherService(db)

	customer := createCustomer(t, db, "alice", 0)

	_, err := svc.Evaluate(customer.ID, "  ", 200, time.Now())
	assert.True(t, IsValidation(err))

	_, err = svc.Evaluate(customer.ID, "SAVE10", -1, time.Now())
	assert.True(t, IsValidation(err))
}
