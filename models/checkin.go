package models

import "time"

// DayFormat is the calendar-day layout used for check-in uniqueness.
const DayFormat = "2006-01-02"

// CheckInHistory is an append-only record of one daily check-in. CheckInDay holds
// the calendar date as a string so the composite unique index enforces the
// one-check-in-per-day rule at the database level regardless of timezone math.
type CheckInHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"index;not null;uniqueIndex:idx_checkin_customer_day" json:"customer_id"`
	CheckInDay   string    `gorm:"size:10;not null;uniqueIndex:idx_checkin_customer_day" json:"check_in_day"`
	CheckInAt    time.Time `gorm:"not null" json:"check_in_at"`
	PointsEarned int       `gorm:"not null" json:"points_earned"`
	Streak       int       `gorm:"default:1" json:"streak"`
	CreatedAt    time.Time `json:"created_at"`
}
