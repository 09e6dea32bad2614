package repository

import (
	"context"

	"chalet-booking-service/internal/domain/entity"
)

// AdminRepository defines the interface for admin account lookups
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.Admin, error)
}
