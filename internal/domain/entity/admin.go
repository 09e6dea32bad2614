package entity

import (
	"time"

	"gorm.io/gorm"
)

// Admin represents a dashboard operator account
type Admin struct {
	ID           uint
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt
}
