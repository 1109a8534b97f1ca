package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplemart/storefront/models"
)

func TestEvaluatePromotionApplicable(t *testing.T) {
	db := newTestDB(t)
	svc := NewPromotionService(db)

	now := time.Now()
	customer := createCustomer(t, db, "alice", 0)
	promo := createPromotion(t, db, "summer", 15, 2, now.Add(-time.Hour), now.Add(time.Hour))

	elig, err := svc.Evaluate(customer.ID, promo.ID, now)
	require.NoError(t, err)
	assert.True(t, elig.IsApplicable)
	assert.Empty(t, elig.Reason)
	assert.Equal(t, 0, elig.UsedCountByUser)
	assert.Equal(t, 2, elig.RemainingUses)
	assert.Equal(t, 30.0, elig.Discount(200))
}

func TestEvaluatePromotionOutsideWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewPromotionService(db)

	now := time.Now()
	customer := createCustomer(t, db, "alice", 0)
	promo := createPromotion(t, db, "ended", 15, 2, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	elig, err := svc.Evaluate(customer.ID, promo.ID, now)
	require.NoError(t, err)
	assert.False(t, elig.IsApplicable)
	assert.Equal(t, "promotion_expired", elig.Reason)
	assert.Equal(t, 0.0, elig.Discount(200))
}

func TestEvaluatePromotionInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewPromotionService(db)

	now := time.Now()
	customer := createCustomer(t, db, "alice", 0)
	promo := createPromotion(t, db, "paused", 15, 2, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, db.Model(promo).Update("is_active", false).Error)

	elig, err := svc.Evaluate(customer.ID, promo.ID, now)
	require.NoError(t, err)
	assert.False(t, elig.IsApplicable)
	assert.Equal(t, "promotion_expired", elig.Reason)
}

func TestEvaluatePromotionUserLimitReached(t *testing.T) {
	db := newTestDB(t)
	svc := NewPromotionService(db)

	now := time.Now()
	customer := createCustomer(t, db, "alice", 0)
	promo := createPromotion(t, db, "limited", 15, 1, now.Add(-time.Hour), now.Add(time.Hour))

	require.NoError(t, db.Create(&models.UserPromotion{
		CustomerID:  customer.ID,
		PromotionID: &promo.ID,
		OrderID:     1,
		UsedDate:    now,
	}).Error)

	elig, err := svc.Evaluate(customer.ID, promo.ID, now)
	require.NoError(t, err)
	assert.False(t, elig.IsApplicable)
	assert.Equal(t, "promotion_user_limit_reached", elig.Reason)
	assert.Equal(t, 1, elig.UsedCountByUser)
	assert.Equal(t, 0, elig.RemainingUses)
}

func TestEvaluatePromotionNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewPromotionService(db)

	customer := createCustomer(t, db, "alice", 0)

	_, err := svc.Evaluate(customer.ID, 9999, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEvaluateUsageIsPerCustomer(t *testing.T) {
	db := newTestDB(t)
	svc := NewPromotionService(db)

	now := time.Now()
	alice := createCustomer(t, db, "alice", 0)
	bob := createCustomer(t, db, "bob", 0)
	promo := createPromotion(t, db, "shared", 10, 1, now.Add(-time.Hour), now.Add(time.Hour))

	require.NoError(t, db.Create(&models.UserPromotion{
		CustomerID:  alice.ID,
		PromotionID: &promo.ID,
		OrderID:     1,
		UsedDate:    now,
	}).Error)

	aliceElig, err := svc.Evaluate(alice.ID, promo.ID, now)
	require.NoError(t, err)
	assert.False(t, aliceElig.IsApplicable)

	bobElig, err := svc.Evaluate(bob.ID, promo.ID, now)
	require.NoError(t, err)
	assert.True(t, bobElig.IsApplicable)
}
