package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/maplemart/storefront/models"
)

// VoucherService evaluates voucher eligibility and computes discount amounts.
// Like promotion evaluation this is a pure read; the global counter is only
// consumed by the checkout commit.
type VoucherService struct {
	db *gorm.DB
}

// NewVoucherService creates a new service instance.
func NewVoucherService(db *gorm.DB) *VoucherService {
	return &VoucherService{db: db}
}

// VoucherEligibility is the result of evaluating one voucher code against one
// customer and order subtotal. DiscountAmount is zero whenever IsApplicable is
// false.
type VoucherEligibility struct {
	Voucher         *models.Voucher `json:"voucher"`
	IsApplicable    bool            `json:"is_applicable"`
	Reason          string          `json:"reason,omitempty"`
	DiscountAmount  float64         `json:"discount_amount"`
	UsedCountByUser int             `json:"used_count_by_user"`
}

// Evaluate checks expiry, the global cap, the per-customer cap and the minimum
// order value, then computes the discount for the subtotal. Percentage discounts
// are capped at the subtotal; fixed discounts never exceed it.
func (s *VoucherService) Evaluate(customerID uint, code string, orderSubtotal float64, asOf time.Time) (*VoucherEligibility, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, validationErr("voucher_code", "required")
	}
	if orderSubtotal < 0 {
		return nil, validationErr("order_subtotal", "must not be negative")
	}

	voucher, err := findVoucherByCode(s.db, code)
	if err != nil {
		return nil, err
	}

	used, err := s.usedCountByUser(customerID, voucher.ID)
	if err != nil {
		return nil, err
	}

	result := &VoucherEligibility{
		Voucher:         voucher,
		UsedCountByUser: used,
	}

	switch {
	case voucher.Expired(asOf):
		result.Reason = "voucher_expired"
	case voucher.UsedCount >= voucher.MaxUsage:
		result.Reason = "voucher_global_limit_reached"
	case used >= voucher.DefaultUserMaxUsage:
		result.Reason = "voucher_user_limit_reached"
	case orderSubtotal < voucher.MinOrder():
		result.Reason = "min_order_value_not_met"
	default:
		result.IsApplicable = true
		result.DiscountAmount = VoucherDiscount(voucher, orderSubtotal)
	}
	return result, nil
}

// VoucherDiscount computes the raw discount amount of a voucher on a subtotal.
func VoucherDiscount(v *models.Voucher, subtotal float64) float64 {
	var d float64
	switch v.DiscountType {
	case models.DiscountTypePercentage:
		d = subtotal * v.DiscountValue / 100
	case models.DiscountTypeFixed:
		d = v.DiscountValue
	}
	if d > subtotal {
		d = subtotal
	}
	return d
}

// findVoucherByCode resolves a voucher by its exact code. MySQL's default
// collation is case-insensitive, so the fetched row is re-compared byte for byte.
func findVoucherByCode(tx *gorm.DB, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	if err := tx.Where("code = ?", code).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if voucher.Code != code {
		return nil, ErrNotFound
	}
	return &voucher, nil
}

func (s *VoucherService) usedCountByUser(customerID, voucherID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.UserPromotion{}).
		Where("customer_id = ? AND voucher_id = ?", customerID, voucherID).
		Count(&count).Error
	return int(count), err
}
