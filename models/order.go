package models

import "time"

// Order statuses. Orders are created as pending and moved forward by fulfilment,
// which is outside this service.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order is a committed checkout. Discount columns record what was actually applied
// at commit time; PromotionID/VoucherID are nullable FKs, never object references.
type Order struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	OrderNumber       string    `gorm:"size:64;uniqueIndex;not null" json:"order_number"`
	CustomerID        uint      `gorm:"index;not null" json:"customer_id"`
	PromotionID       *uint     `gorm:"index" json:"promotion_id"`
	VoucherID         *uint     `gorm:"index" json:"voucher_id"`
	Subtotal          float64   `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	PromotionDiscount float64   `gorm:"type:decimal(10,2);default:0" json:"promotion_discount"`
	VoucherDiscount   float64   `gorm:"type:decimal(10,2);default:0" json:"voucher_discount"`
	TotalDiscount     float64   `gorm:"type:decimal(10,2);default:0" json:"total_discount"`
	Total             float64   `gorm:"type:decimal(10,2);not null" json:"total"`
	Status            string    `gorm:"size:16;default:'pending'" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OrderItem snapshots one cart line at commit time. Name and unit price are copied
// from the product so later catalog edits do not rewrite order history.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index;not null" json:"order_id"`
	ProductID   uint    `gorm:"index;not null" json:"product_id"`
	ProductName string  `gorm:"size:255;not null" json:"product_name"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int     `gorm:"not null" json:"quantity"`
}
