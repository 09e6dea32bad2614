package repository

import (
	"context"
	"time"

	"chalet-booking-service/internal/domain/entity"
	"chalet-booking-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAdminRepository implements the AdminRepository interface
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GORM admin repository
func NewGormAdminRepository(db *gorm.DB) repository.AdminRepository {
	return &GormAdminRepository{
		db: db,
	}
}

// Admins GORM model for database mapping
type Admins struct {
	ID           uint           `gorm:"primaryKey"`
	Email        string         `gorm:"column:email;unique"`
	PasswordHash string         `gorm:"column:password_hash"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName overrides the default table name
func (Admins) TableName() string {
	return "m_admins"
}

// GetByEmail finds an admin account by email
func (r *GormAdminRepository) GetByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	var admin Admins
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&admin)

	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.Admin{
		ID:           admin.ID,
		Email:        admin.Email,
		PasswordHash: admin.PasswordHash,
		CreatedAt:    admin.CreatedAt,
		UpdatedAt:    admin.UpdatedAt,
		DeletedAt:    admin.DeletedAt,
	}, nil
}
