package models

import "time"

// RewardHistory records one points-for-reward exchange. IsConfirmed starts false
// and is flipped to true exactly once by an admin when the reward is fulfilled;
// it never reverts.
type RewardHistory struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CustomerID  uint       `gorm:"index;not null" json:"customer_id"`
	RewardName  string     `gorm:"size:255;not null" json:"reward_name"`
	PointsUsed  int        `gorm:"not null" json:"points_used"`
	RedeemedAt  time.Time  `gorm:"not null" json:"redeemed_at"`
	IsConfirmed bool       `gorm:"default:false" json:"is_confirmed"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
