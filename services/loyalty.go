package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/maplemart/storefront/models"
)

// LoyaltyService keeps the points ledger: daily check-ins and reward redemption.
// Award amounts come from configuration, never constants baked into the rules.
type LoyaltyService struct {
	db          *gorm.DB
	basePoints  int
	streakBonus int
}

// NewLoyaltyService creates a service awarding basePoints per check-in plus
// streakBonus for every consecutive day beyond the first.
func NewLoyaltyService(db *gorm.DB, basePoints, streakBonus int) *LoyaltyService {
	return &LoyaltyService{db: db, basePoints: basePoints, streakBonus: streakBonus}
}

// CheckInResult reports a successful daily check-in.
type CheckInResult struct {
	PointsEarned int `json:"points_earned"`
	NewTotal     int `json:"new_total"`
	Streak       int `json:"streak"`
}

// CheckIn records one check-in for the calendar day of today. A second call on
// the same day fails with ErrAlreadyCheckedInToday and changes nothing; the
// unique (customer, day) index backstops the read-then-insert under concurrency.
func (s *LoyaltyService) CheckIn(customerID uint, today time.Time) (*CheckInResult, error) {
	day := today.Format(models.DayFormat)

	var result CheckInResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := lockForUpdate(tx).First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		streak := 1
		if customer.LastCheckInAt != nil {
			lastDay := customer.LastCheckInAt.Format(models.DayFormat)
			if lastDay == day {
				return ErrAlreadyCheckedInToday
			}
			if lastDay == today.AddDate(0, 0, -1).Format(models.DayFormat) {
				streak = customer.CheckInStreak + 1
			}
		}

		earned := s.basePoints + s.streakBonus*(streak-1)

		record := models.CheckInHistory{
			CustomerID:   customerID,
			CheckInDay:   day,
			CheckInAt:    today,
			PointsEarned: earned,
			Streak:       streak,
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCheckedInToday
			}
			return err
		}

		checkInAt := today
		updates := map[string]interface{}{
			"points":           gorm.Expr("points + ?", earned),
			"check_in_count":   gorm.Expr("check_in_count + 1"),
			"check_in_streak":  streak,
			"last_check_in_at": &checkInAt,
		}
		if err := tx.Model(&models.Customer{}).Where("id = ?", customerID).Updates(updates).Error; err != nil {
			return err
		}

		result = CheckInResult{
			PointsEarned: earned,
			NewTotal:     customer.Points + earned,
			Streak:       streak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Redeem exchanges points for a reward. The guarded UPDATE keeps the balance
// non-negative even when two redemptions race; the losing request sees
// ErrInsufficientPoints and no RewardHistory row is written.
func (s *LoyaltyService) Redeem(customerID uint, rewardName string, pointsCost int, now time.Time) (*models.RewardHistory, error) {
	rewardName = strings.TrimSpace(rewardName)
	if rewardName == "" {
		return nil, validationErr("reward_name", "required")
	}
	if pointsCost <= 0 {
		return nil, validationErr("points_cost", "must be positive")
	}

	var reward *models.RewardHistory
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		res := tx.Model(&models.Customer{}).
			Where("id = ? AND points >= ?", customerID, pointsCost).
			Update("points", gorm.Expr("points - ?", pointsCost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		r := models.RewardHistory{
			CustomerID: customerID,
			RewardName: rewardName,
			PointsUsed: pointsCost,
			RedeemedAt: now,
		}
		if err := tx.Create(&r).Error; err != nil {
			return err
		}
		reward = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// Confirm marks a redeemed reward fulfilled. The transition is one-way and
// idempotence is by rejection: the second call reports ErrAlreadyConfirmed and
// leaves the row as the first call wrote it.
func (s *LoyaltyService) Confirm(rewardID uint, now time.Time) error {
	res := s.db.Model(&models.RewardHistory{}).
		Where("id = ? AND is_confirmed = ?", rewardID, false).
		Updates(map[string]interface{}{"is_confirmed": true, "confirmed_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var reward models.RewardHistory
		if err := s.db.First(&reward, rewardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return ErrAlreadyConfirmed
	}
	return nil
}

// PointsSummary is the admin/customer view over the loyalty ledger.
type PointsSummary struct {
	CustomerID     uint                    `json:"customer_id"`
	Points         int                     `json:"points"`
	CheckInCount   int                     `json:"check_in_count"`
	CheckInStreak  int                     `json:"check_in_streak"`
	LastCheckInAt  *time.Time              `json:"last_check_in_at"`
	RecentCheckIns []models.CheckInHistory `json:"recent_check_ins"`
	PendingRewards int64                   `json:"pending_rewards"`
	Rewards        []models.RewardHistory  `json:"rewards"`
}

// Summary projects the customer's loyalty state. Pure read, no business logic.
func (s *LoyaltyService) Summary(customerID uint) (*PointsSummary, error) {
	var customer models.Customer
	if err := s.db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	summary := &PointsSummary{
		CustomerID:    customer.ID,
		Points:        customer.Points,
		CheckInCount:  customer.CheckInCount,
		CheckInStreak: customer.CheckInStreak,
		LastCheckInAt: customer.LastCheckInAt,
	}

	if err := s.db.Where("customer_id = ?", customerID).
		Order("check_in_at DESC").Limit(10).
		Find(&summary.RecentCheckIns).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("customer_id = ?", customerID).
		Order("redeemed_at DESC").Limit(20).
		Find(&summary.Rewards).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.RewardHistory{}).
		Where("customer_id = ? AND is_confirmed = ?", customerID, false).
		Count(&summary.PendingRewards).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

// PromotionUsage is one row of a customer's discount history with the names
// joined in.
type PromotionUsage struct {
	ID            uint      `json:"id"`
	PromotionID   *uint     `json:"promotion_id"`
	VoucherID     *uint     `json:"voucher_id"`
	OrderID       uint      `json:"order_id"`
	UsedDate      time.Time `json:"used_date"`
	PromotionName string    `json:"promotion_name,omitempty"`
	VoucherCode   string    `json:"voucher_code,omitempty"`
}

// PromotionHistory lists the customer's usage-ledger rows, newest first.
func (s *LoyaltyService) PromotionHistory(customerID uint) ([]PromotionUsage, error) {
	var rows []PromotionUsage
	err := s.db.Model(&models.UserPromotion{}).
		Select("user_promotions.id, user_promotions.promotion_id, user_promotions.voucher_id, user_promotions.order_id, user_promotions.used_date, promotions.name AS promotion_name, vouchers.code AS voucher_code").
		Joins("LEFT JOIN promotions ON promotions.id = user_promotions.promotion_id").
		Joins("LEFT JOIN vouchers ON vouchers.id = user_promotions.voucher_id").
		Where("user_promotions.customer_id = ?", customerID).
		Order("user_promotions.used_date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
