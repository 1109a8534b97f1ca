package models

import "time"

// Voucher discount kinds.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Voucher is a code-redeemable discount with a global usage cap (MaxUsage /
// UsedCount) and a per-customer cap (DefaultUserMaxUsage). Codes are matched
// case-sensitively. A nil EndDate means the voucher never expires, a nil
// MinOrderValue means no minimum.
type Voucher struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Code                string     `gorm:"size:64;uniqueIndex;not null" json:"code"`
	DiscountType        string     `gorm:"size:16;not null" json:"discount_type"`
	DiscountValue       float64    `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	MinOrderValue       *float64   `gorm:"type:decimal(10,2)" json:"min_order_value"`
	MaxUsage            int        `gorm:"not null" json:"max_usage"`
	UsedCount           int        `gorm:"default:0" json:"used_count"`
	DefaultUserMaxUsage int        `gorm:"default:1" json:"default_user_max_usage"`
	EndDate             *time.Time `json:"end_date"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Expired reports whether the voucher has an end date in the past relative to at.
func (v *Voucher) Expired(at time.Time) bool {
	return v.EndDate != nil && at.After(*v.EndDate)
}

// MinOrder returns the effective minimum order value, zero when unset.
func (v *Voucher) MinOrder() float64 {
	if v.MinOrderValue == nil {
		return 0
	}
	return *v.MinOrderValue
}
