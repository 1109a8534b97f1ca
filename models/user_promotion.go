package models

import "time"

// UserPromotion is the usage ledger: one row per redemption of a promotion or a
// voucher by one customer. Exactly one of PromotionID / VoucherID is set.
// Per-customer usage counts are row counts over this table.
type UserPromotion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomerID  uint      `gorm:"index;not null" json:"customer_id"`
	PromotionID *uint     `gorm:"index" json:"promotion_id"`
	VoucherID   *uint     `gorm:"index" json:"voucher_id"`
	OrderID     uint      `gorm:"index" json:"order_id"`
	UsedDate    time.Time `gorm:"not null" json:"used_date"`
}
