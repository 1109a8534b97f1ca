package models

import "time"

// Promotion is a time-boxed storewide percentage discount with a per-customer
// usage cap. DiscountPercent is limited to 0-50 at the admin API boundary.
type Promotion struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Name                string    `gorm:"size:255;not null" json:"name"`
	DiscountPercent     float64   `gorm:"type:decimal(5,2);not null" json:"discount_percent"`
	StartDate           time.Time `gorm:"not null" json:"start_date"`
	EndDate             time.Time `gorm:"not null" json:"end_date"`
	IsActive            bool      `gorm:"default:true" json:"is_active"`
	DefaultUserMaxUsage int       `gorm:"default:1" json:"default_user_max_usage"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// InWindow reports whether the promotion window covers the given instant.
func (p *Promotion) InWindow(at time.Time) bool {
	return !at.Before(p.StartDate) && !at.After(p.EndDate)
}
