package models

import "time"

// User represents a registered account.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"index;type:varchar(100)" validate:"required,min=3,max=100"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	HashedPassword string    `json:"-" gorm:"type:varchar(255)"` // Never serialized
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
