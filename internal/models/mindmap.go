package models

import (
	"encoding/json"
	"time"
)

// MindMap is a user-owned mind map document. Data holds the raw JSON tree
// exactly as the client sent it; no structural validation is applied beyond
// "valid JSON value". The node shape {title, children, type} is a convention
// enforced only by the AI prompt instructions.
type MindMap struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Title     string          `json:"title" gorm:"index;type:varchar(255)" validate:"required,max=255"`
	Data      json.RawMessage `json:"data" gorm:"type:json"`
	UserID    uint            `json:"user_id" gorm:"index;not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
