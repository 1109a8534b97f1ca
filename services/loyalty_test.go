package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maplemart/storefront/models"
)

func TestCheckInAwardsBasePoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	customer := createCustomer(t, db, "alice", 0)

	result, err := svc.CheckIn(customer.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 10, result.PointsEarned)
	assert.Equal(t, 10, result.NewTotal)
	assert.Equal(t, 1, result.Streak)

	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, 10, got.Points)
	assert.Equal(t, 1, got.CheckInCount)
	assert.Equal(t, 1, got.CheckInStreak)
	require.NotNil(t, got.LastCheckInAt)
}

func TestCheckInTwiceSameDayRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	customer := createCustomer(t, db, "alice", 0)
	now := time.Date(2026, 8, 25, 9, 0, 0, 0, time.Local)

	_, err := svc.CheckIn(customer.ID, now)
	require.NoError(t, err)

	_, err = svc.CheckIn(customer.ID, now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyCheckedInToday)

	// the rejected call changed nothing
	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, 10, got.Points)
	assert.Equal(t, 1, got.CheckInCount)

	var history int64
	require.NoError(t, db.Model(&models.CheckInHistory{}).Where("customer_id = ?", customer.ID).Count(&history).Error)
	assert.Equal(t, int64(1), history)
}

func TestCheckInConsecutiveDaysGrowStreak(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	customer := createCustomer(t, db, "alice", 0)
	day1 := time.Date(2026, 8, 25, 9, 0, 0, 0, time.Local)

	r1, err := svc.CheckIn(customer.ID, day1)
	require.NoError(t, err)
	assert.Equal(t, 10, r1.PointsEarned)
	assert.Equal(t, 1, r1.Streak)

	r2, err := svc.CheckIn(customer.ID, day1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 12, r2.PointsEarned)
	assert.Equal(t, 2, r2.Streak)

	r3, err := svc.CheckIn(customer.ID, day1.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 14, r3.PointsEarned)
	assert.Equal(t, 3, r3.Streak)

	// a gap resets the streak
	r4, err := svc.CheckIn(customer.ID, day1.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, 10, r4.PointsEarned)
	assert.Equal(t, 1, r4.Streak)
}

func TestCheckInUnknownCustomer(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	_, err := svc.CheckIn(9999, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedeemReward(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	customer := createCustomer(t, db, "alice", 100)

	reward, err := svc.Redeem(customer.ID, "mug", 60, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "mug", reward.RewardName)
	assert.Equal(t, 60, reward.PointsUsed)
	assert.False(t, reward.IsConfirmed)

	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, 40, got.Points)
}

func TestRedeemInsufficientPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	customer := createCustomer(t, db, "alice", 50)

	_, err := svc.Redeem(customer.ID, "mug", 60, time.Now())
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// balance untouched, no ledger row
	var got models.Customer
	require.NoError(t, db.First(&got, customer.ID).Error)
	assert.Equal(t, 50, got.Points)

	var rewards int64
	require.NoError(t, db.Model(&models.RewardHistory{}).Count(&rewards).Error)
	assert.Equal(t, int64(0), rewards)
}

func TestRedeemValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	customer := createCustomer(t, db, "alice", 100)

	_, err := svc.Redeem(customer.ID, "  ", 60, time.Now())
	assert.True(t, IsValidation(err))

	_, err = svc.Redeem(customer.ID, "mug", 0, time.Now())
	assert.True(t, IsValidation(err))
}

func TestConfirmRewardOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	customer := createCustomer(t, db, "alice", 100)
	reward, err := svc.Redeem(customer.ID, "mug", 60, time.Now())
	require.NoError(t, err)

	firstConfirm := time.Now()
	require.NoError(t, svc.Confirm(reward.ID, firstConfirm))

	var got models.RewardHistory
	require.NoError(t, db.First(&got, reward.ID).Error)
	assert.True(t, got.IsConfirmed)
	require.NotNil(t, got.ConfirmedAt)

	// second confirm is rejected and leaves the first timestamp in place
	err = svc.Confirm(reward.ID, firstConfirm.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	var again models.RewardHistory
	require.NoError(t, db.First(&again, reward.ID).Error)
	require.NotNil(t, again.ConfirmedAt)
	assert.Equal(t, got.ConfirmedAt.Unix(), again.ConfirmedAt.Unix())
}

func TestConfirmUnknownReward(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	err := svc.Confirm(9999, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummary(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	customer := createCustomer(t, db, "alice", 0)

	_, err := svc.CheckIn(customer.ID, time.Now())
	require.NoError(t, err)
	_, err = svc.Redeem(customer.ID, "sticker", 5, time.Now())
	require.NoError(t, err)

	summary, err := svc.Summary(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Points)
	assert.Equal(t, 1, summary.CheckInCount)
	assert.Len(t, summary.RecentCheckIns, 1)
	assert.Len(t, summary.Rewards, 1)
	assert.Equal(t, int64(1), summary.PendingRewards)
}

func TestPromotionHistoryJoinsNames(t *testing.T) {
	db := newTestDB(t)
	svc := NewLoyaltyService(db, 10, 2)

	now := time.Now()
	customer := createCustomer(t, db, "alice", 0)
	promo := createPromotion(t, db, "summer", 10, 2, now.Add(-time.Hour), now.Add(time.Hour))
	voucher := createVoucher(t, db, save10())

	require.NoError(t, db.Create(&models.UserPromotion{
		CustomerID:  customer.ID,
		PromotionID: &promo.ID,
		OrderID:     1,
		UsedDate:    now.Add(-time.Minute),
	}).Error)
	require.NoError(t, db.Create(&models.UserPromotion{
		CustomerID: customer.ID,
		VoucherID:  &voucher.ID,
		OrderID:    2,
		UsedDate:   now,
	}).Error)

	rows, err := svc.PromotionHistory(customer.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SAVE10", rows[0].VoucherCode)
	assert.Equal(t, "summer", rows[1].PromotionName)
}
