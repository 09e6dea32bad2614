package usecase

import (
	"context"
	"fmt"
	"time"

	"chalet-booking-service/internal/domain/entity"
	"chalet-booking-service/internal/domain/repository"
	"chalet-booking-service/pkg/logger"
	"chalet-booking-service/pkg/metrics"
	"chalet-booking-service/pkg/utils"
	"chalet-booking-service/templates"
)

// LifecycleConfig carries the booking rules the lifecycle enforces
type LifecycleConfig struct {
	DepositMin   float64
	DepositMax   float64
	CutoffHour   int
	CancelPolicy string
	Now          func() time.Time
}

// BookingLifecycle owns the booking state machine and the invariants that
// span the whole collection: one active booking per date, no duplicate
// customer per date, and expiry of elapsed bookings.
type BookingLifecycle struct {
	bookingRepo repository.BookingRepository
	notifier    repository.NotificationRepository
	logger      logger.Logger
	metrics     *metrics.Metrics
	cfg         LifecycleConfig
}

// NewBookingLifecycle creates a new booking lifecycle manager
func NewBookingLifecycle(
	bookingRepo repository.BookingRepository,
	notifier repository.NotificationRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
	cfg LifecycleConfig,
) *BookingLifecycle {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CancelPolicy == "" {
		cfg.CancelPolicy = entity.CancelPolicyImmediateDelete
	}
	return &BookingLifecycle{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
		metrics:     metrics,
		cfg:         cfg,
	}
}

// CreateInput is the booking form payload
type CreateInput struct {
	Date            string
	CustomerName    string
	CustomerPhone   string
	NationalID      string
	DepositAmount   float64
	NotificationKey string
}

// ConfirmResult reports a confirmation outcome. NotificationWarning is set
// when the booking was confirmed but the WhatsApp dispatch failed.
type ConfirmResult struct {
	Booking             *entity.Booking
	NotificationSent    bool
	NotificationWarning string
}

// Create validates the form, runs the duplicate and availability checks and
// persists a new pending booking.
//
// The availability check is query-before-write with no transaction: two
// callers racing on the same date can both pass it. That window is inherited
// from the original design and intentionally left open.
func (l *BookingLifecycle) Create(ctx context.Context, in CreateInput) (*entity.Booking, error) {
	if err := l.validate(in); err != nil {
		return nil, err
	}

	// Duplicate check runs first so a customer re-submitting their own date
	// is told about the duplicate, not the conflict.
	sameDay, err := l.bookingRepo.FindByDate(ctx, in.Date, entity.ActiveStatuses())
	if err != nil {
		return nil, err
	}
	for _, b := range sameDay {
		if b.NationalID == in.NationalID || b.CustomerPhone == in.CustomerPhone {
			return nil, entity.ErrDuplicateCustomer
		}
	}
	if len(sameDay) > 0 {
		return nil, entity.ErrDateConflict
	}

	now := l.cfg.Now()
	booking := &entity.Booking{
		BookingID:       fmt.Sprintf("BK%d", now.UnixMilli()),
		Date:            in.Date,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		NationalID:      in.NationalID,
		DepositAmount:   in.DepositAmount,
		NotificationKey: in.NotificationKey,
		Status:          entity.StatusPending,
		CreatedAt:       now,
	}

	if err := l.bookingRepo.Insert(ctx, booking); err != nil {
		l.metrics.ErrorsCount.WithLabelValues("create").Inc()
		return nil, err
	}

	l.metrics.BookingsCreated.Inc()
	l.logger.Info("Booking created",
		"bookingId", booking.BookingID,
		"date", booking.Date,
		"deposit", booking.DepositAmount)

	return booking, nil
}

// Confirm moves a pending booking to confirmed. The total amount must be at
// least the deposit. A WhatsApp notification is attempted afterwards when the
// booking carries a delivery key; its failure never rolls back the transition.
func (l *BookingLifecycle) Confirm(ctx context.Context, bookingID string, totalAmount float64) (*ConfirmResult, error) {
	booking, err := l.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsActive() {
		return nil, entity.ErrNotFound
	}

	if totalAmount <= 0 || totalAmount < booking.DepositAmount {
		return nil, &entity.AmountError{Total: totalAmount, Deposit: booking.DepositAmount}
	}

	err = l.bookingRepo.Update(ctx, bookingID, map[string]interface{}{
		"status":      entity.StatusConfirmed,
		"totalAmount": totalAmount,
	})
	if err != nil {
		l.metrics.ErrorsCount.WithLabelValues("confirm").Inc()
		return nil, err
	}

	booking.Status = entity.StatusConfirmed
	booking.TotalAmount = &totalAmount

	l.metrics.BookingsConfirmed.Inc()
	l.logger.Info("Booking confirmed", "bookingId", bookingID, "totalAmount", totalAmount)

	result := &ConfirmResult{Booking: booking}

	if booking.NotificationKey != "" && booking.CustomerPhone != "" {
		phone := utils.InternationalPhone(booking.CustomerPhone)
		text := templates.ConfirmationMessage(booking.BookingID, booking.Date)
		if err := l.notifier.Send(ctx, phone, text, booking.NotificationKey); err != nil {
			l.metrics.Notifications.WithLabelValues("failed").Inc()
			l.logger.Warn("Confirmation notification failed",
				"bookingId", bookingID,
				"error", err)
			result.NotificationWarning = err.Error()
		} else {
			l.metrics.Notifications.WithLabelValues("sent").Inc()
			result.NotificationSent = true
		}
	}

	return result, nil
}

// Cancel removes a booking according to the configured policy
func (l *BookingLifecycle) Cancel(ctx context.Context, bookingID string) error {
	booking, err := l.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !booking.IsActive() {
		return entity.ErrNotFound
	}

	switch l.cfg.CancelPolicy {
	case entity.CancelPolicyMarkThenSweep:
		err = l.bookingRepo.Update(ctx, bookingID, map[string]interface{}{
			"status": entity.StatusCancelled,
		})
	default:
		err = l.bookingRepo.Delete(ctx, bookingID)
	}
	if err != nil {
		l.metrics.ErrorsCount.WithLabelValues("cancel").Inc()
		return err
	}

	l.metrics.BookingsCancelled.Inc()
	l.logger.Info("Booking cancelled", "bookingId", bookingID, "policy", l.cfg.CancelPolicy)
	return nil
}

// ListFilter narrows ListActive results
type ListFilter struct {
	Status     string
	DateFrom   string
	DateTo     string
	NationalID string
	Search     string
	Ordered    bool
}

// ListActive returns all non-cancelled bookings matching the filter
func (l *BookingLifecycle) ListActive(ctx context.Context, f ListFilter) ([]*entity.Booking, error) {
	statuses := entity.ActiveStatuses()
	if f.Status == entity.StatusPending || f.Status == entity.StatusConfirmed {
		statuses = []string{f.Status}
	}

	return l.bookingRepo.Find(ctx, repository.BookingFilter{
		Statuses:          statuses,
		DateFrom:          f.DateFrom,
		DateTo:            f.DateTo,
		NationalID:        f.NationalID,
		Search:            f.Search,
		SortByCreatedDesc: f.Ordered,
	})
}

// Lookup is the customer self-service search: exact national id match or a
// substring match on name/phone. Cancelled bookings never show up.
func (l *BookingLifecycle) Lookup(ctx context.Context, nationalID, search string) ([]*entity.Booking, error) {
	if nationalID != "" && !utils.ValidNationalID(nationalID) {
		return nil, &entity.ValidationError{Field: "nationalId", Message: "invalid national id: must be 10 digits starting with 1 or 2"}
	}
	return l.ListActive(ctx, ListFilter{
		NationalID: nationalID,
		Search:     search,
		Ordered:    true,
	})
}

// Calendar projects active bookings to their dates and statuses for the
// public availability calendar.
func (l *BookingLifecycle) Calendar(ctx context.Context, from, to string) ([]*entity.CalendarEntry, error) {
	bookings, err := l.ListActive(ctx, ListFilter{DateFrom: from, DateTo: to})
	if err != nil {
		return nil, err
	}

	entries := make([]*entity.CalendarEntry, 0, len(bookings))
	for _, b := range bookings {
		entries = append(entries, &entity.CalendarEntry{Date: b.Date, Status: b.Status})
	}
	return entries, nil
}

// Availability reports whether a date can still be booked: it must be
// bookable under the cutoff rule and hold no active booking.
func (l *BookingLifecycle) Availability(ctx context.Context, date string) (bool, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return false, &entity.ValidationError{Field: "date", Message: "invalid date: expected YYYY-MM-DD"}
	}
	if utils.DateElapsed(date, l.cfg.Now(), l.cfg.CutoffHour) {
		return false, nil
	}

	existing, err := l.bookingRepo.FindByDate(ctx, date, entity.ActiveStatuses())
	if err != nil {
		return false, err
	}
	return len(existing) == 0, nil
}

// SweepExpired removes every confirmed booking whose date has fully elapsed,
// and purges cancelled leftovers under the mark-then-sweep policy. It is
// idempotent and safe to run from overlapping callers.
func (l *BookingLifecycle) SweepExpired(ctx context.Context) (int, error) {
	now := l.cfg.Now()

	confirmed, err := l.bookingRepo.Find(ctx, repository.BookingFilter{
		Statuses: []string{entity.StatusConfirmed},
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, b := range confirmed {
		if !utils.DateElapsed(b.Date, now, l.cfg.CutoffHour) {
			continue
		}
		if err := l.bookingRepo.Delete(ctx, b.BookingID); err != nil {
			l.metrics.ErrorsCount.WithLabelValues("sweep").Inc()
			l.logger.Error("Failed to sweep booking", "bookingId", b.BookingID, "error", err)
			continue
		}
		removed++
		l.logger.Info("Swept expired booking", "bookingId", b.BookingID, "date", b.Date)
	}

	if l.cfg.CancelPolicy == entity.CancelPolicyMarkThenSweep {
		cancelled, err := l.bookingRepo.Find(ctx, repository.BookingFilter{
			Statuses: []string{entity.StatusCancelled},
		})
		if err != nil {
			return removed, err
		}
		for _, b := range cancelled {
			if err := l.bookingRepo.Delete(ctx, b.BookingID); err != nil {
				l.metrics.ErrorsCount.WithLabelValues("sweep").Inc()
				l.logger.Error("Failed to purge cancelled booking", "bookingId", b.BookingID, "error", err)
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		l.metrics.BookingsSwept.Add(float64(removed))
	}
	return removed, nil
}

// Stats summarizes the active collection for the admin dashboard
func (l *BookingLifecycle) Stats(ctx context.Context) (*entity.BookingStats, error) {
	pending, err := l.bookingRepo.CountByStatus(ctx, entity.StatusPending)
	if err != nil {
		return nil, err
	}
	confirmed, err := l.bookingRepo.CountByStatus(ctx, entity.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	return &entity.BookingStats{
		Total:     pending + confirmed,
		Pending:   pending,
		Confirmed: confirmed,
	}, nil
}

// validate applies the form rules in fixed order; the first failure wins
func (l *BookingLifecycle) validate(in CreateInput) error {
	if in.Date == "" {
		return &entity.ValidationError{Field: "date", Message: "date is required"}
	}
	if _, err := utils.ParseDate(in.Date); err != nil {
		return &entity.ValidationError{Field: "date", Message: "invalid date: expected YYYY-MM-DD"}
	}
	if utils.DateElapsed(in.Date, l.cfg.Now(), l.cfg.CutoffHour) {
		return &entity.ValidationError{Field: "date", Message: "date is no longer bookable"}
	}
	if !utils.ValidCustomerName(in.CustomerName) {
		return &entity.ValidationError{Field: "customerName", Message: "invalid name: letters and spaces only, at least 3 characters"}
	}
	if !utils.ValidCustomerPhone(in.CustomerPhone) {
		return &entity.ValidationError{Field: "customerPhone", Message: "invalid phone: expected a mobile number like 05xxxxxxxx"}
	}
	if !utils.ValidNationalID(in.NationalID) {
		return &entity.ValidationError{Field: "nationalId", Message: "invalid national id: must be 10 digits starting with 1 or 2"}
	}
	if in.DepositAmount < l.cfg.DepositMin {
		return &entity.ValidationError{Field: "depositAmount", Message: fmt.Sprintf("deposit must be at least %.0f", l.cfg.DepositMin)}
	}
	if in.DepositAmount > l.cfg.DepositMax {
		return &entity.ValidationError{Field: "depositAmount", Message: fmt.Sprintf("deposit must be at most %.0f", l.cfg.DepositMax)}
	}
	return nil
}
