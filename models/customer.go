package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a storefront account. Passwords are stored as bcrypt hashes only.
// Related records (orders, check-ins, rewards, promotion usage) reference the customer
// by ID; there are no navigation back-pointers on this struct.
type Customer struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email         string         `gorm:"size:255" json:"email"`
	PasswordHash  string         `gorm:"size:255" json:"-"`
	IsAdmin       bool           `gorm:"default:false" json:"is_admin"`
	Points        int            `gorm:"default:0" json:"points"`
	CheckInCount  int            `gorm:"default:0" json:"check_in_count"`
	CheckInStreak int            `gorm:"default:0" json:"check_in_streak"`
	LastCheckInAt *time.Time     `json:"last_check_in_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (c *Customer) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return nil
}
