package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Item status values (clean/worn/dirty laundry cycle).
const (
	ItemStatusClean = "clean"
	ItemStatusWorn  = "worn"
	ItemStatusDirty = "dirty"
)

// AI processing status values. A provisional item starts as pending,
// moves to processing while the pipeline runs, and ends completed or
// failed. Suggestions are only ever written together with completed.
const (
	ProcessingStatusPending    = "pending"
	ProcessingStatusProcessing = "processing"
	ProcessingStatusCompleted  = "completed"
	ProcessingStatusFailed     = "failed"
)

// ValidItemStatus reports whether s is one of clean, worn or dirty.
func ValidItemStatus(s string) bool {
	return s == ItemStatusClean || s == ItemStatusWorn || s == ItemStatusDirty
}

type WardrobeItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	Title       string         `gorm:"index" json:"title"`
	Description string         `json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Colors      datatypes.JSON `json:"colors"`
	Sizes       datatypes.JSON `json:"sizes"`
	Tags        datatypes.JSON `json:"tags"`
	Price       float64        `json:"price"`
	Formality   *float64       `json:"formality"`
	Season      string         `json:"season"`

	ImageOriginal string `json:"image_original"`
	ImageClean    string `json:"image_clean"`

	Status string `gorm:"index;default:clean" json:"status"`

	ProcessingStatus string         `gorm:"index;default:pending" json:"processing_status"`
	AISuggestions    datatypes.JSON `json:"ai_suggestions"`

	WearCount  int        `gorm:"default:0" json:"wear_count"`
	LastWornAt *time.Time `json:"last_worn_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
