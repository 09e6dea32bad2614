package repository

import (
	"context"

	"chalet-booking-service/internal/domain/entity"
)

// BookingFilter narrows a collection scan. Zero values mean "no constraint".
type BookingFilter struct {
	Statuses   []string // membership filter on status
	DateFrom   string   // inclusive YYYY-MM-DD lower bound
	DateTo     string   // inclusive YYYY-MM-DD upper bound
	NationalID string   // exact match
	Search     string   // case-insensitive substring on name or phone
	SortByCreatedDesc bool
}

// BookingRepository defines the interface for booking storage operations
type BookingRepository interface {
	Insert(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, bookingID string) (*entity.Booking, error)
	FindByDate(ctx context.Context, date string, statuses []string) ([]*entity.Booking, error)
	Find(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error)
	Update(ctx context.Context, bookingID string, fields map[string]interface{}) error
	Delete(ctx context.Context, bookingID string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}
