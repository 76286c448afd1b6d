package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Virtual try-on generation status values.
const (
	TryOnStatusPending    = "pending"
	TryOnStatusProcessing = "processing"
	TryOnStatusCompleted  = "completed"
	TryOnStatusFailed     = "failed"
)

// TryOnResult tracks one AI-generated virtual try-on. The record is
// created in pending state when the request is accepted; a background
// worker updates it with the result image or an error message.
type TryOnResult struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"index;not null" json:"user_id"`
	ItemIDs        datatypes.JSON `json:"item_ids"`
	UserImageURL   string         `json:"user_image_url"`
	ResultImageURL string         `json:"result_image_url"`
	Status         string         `gorm:"index;default:pending" json:"status"`
	ErrorMessage   string         `json:"error_message"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
