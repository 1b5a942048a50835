package models

import "time"

// Credit is the per-user AI usage balance. Exactly one row per user, created
// at signup with the initial grant.
type Credit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Amount    int       `json:"amount" gorm:"not null;default:0" validate:"gte=0"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
