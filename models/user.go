package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	Username          string         `gorm:"uniqueIndex;not null" json:"username"`
	Password          string         `gorm:"not null" json:"-"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	ProfilePictureURL string         `json:"profile_picture_url"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}
