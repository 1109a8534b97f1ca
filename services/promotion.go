package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/maplemart/storefront/models"
)

// PromotionService evaluates promotion eligibility. Evaluation is a pure read and
// re-queries usage counts on every call; nothing is cached across requests.
type PromotionService struct {
	db *gorm.DB
}

// NewPromotionService creates a new service instance.
func NewPromotionService(db *gorm.DB) *PromotionService {
	return &PromotionService{db: db}
}

// PromotionEligibility is the result of evaluating one promotion for one customer.
type PromotionEligibility struct {
	Promotion       *models.Promotion `json:"promotion"`
	IsApplicable    bool              `json:"is_applicable"`
	Reason          string            `json:"reason,omitempty"`
	UsedCountByUser int               `json:"used_count_by_user"`
	RemainingUses   int               `json:"remaining_uses"`
}

// Discount returns the promotion discount amount for the given subtotal, zero
// when the promotion is not applicable.
func (e *PromotionEligibility) Discount(subtotal float64) float64 {
	if !e.IsApplicable {
		return 0
	}
	d := subtotal * e.Promotion.DiscountPercent / 100
	if d > subtotal {
		d = subtotal
	}
	return d
}

// Evaluate decides whether a promotion applies to a customer as of the given
// instant. The promotion must be active, inside its window, and under the
// per-customer usage cap.
func (s *PromotionService) Evaluate(customerID, promotionID uint, asOf time.Time) (*PromotionEligibility, error) {
	var promo models.Promotion
	if err := s.db.First(&promo, promotionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	used, err := s.usedCountByUser(customerID, promotionID)
	if err != nil {
		return nil, err
	}

	result := &PromotionEligibility{
		Promotion:       &promo,
		UsedCountByUser: used,
		RemainingUses:   promo.DefaultUserMaxUsage - used,
	}
	if result.RemainingUses < 0 {
		result.RemainingUses = 0
	}

	switch {
	case !promo.IsActive || !promo.InWindow(asOf):
		result.Reason = "promotion_expired"
	case used >= promo.DefaultUserMaxUsage:
		result.Reason = "promotion_user_limit_reached"
	default:
		result.IsApplicable = true
	}
	return result, nil
}

func (s *PromotionService) usedCountByUser(customerID, promotionID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.UserPromotion{}).
		Where("customer_id = ? AND promotion_id = ?", customerID, promotionID).
		Count(&count).Error
	return int(count), err
}
