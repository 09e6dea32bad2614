package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when operating on a missing or already-removed booking
	ErrNotFound = errors.New("booking not found")

	// ErrDateConflict is returned when the requested date already holds an active booking
	ErrDateConflict = errors.New("date is already booked")

	// ErrDuplicateCustomer is returned when the same customer already holds an
	// active booking on the requested date, matched on national id or phone
	ErrDuplicateCustomer = errors.New("customer already has a booking on this date")
)

// ValidationError reports the first input rule that failed
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AmountError rejects a confirmation whose total is missing or below the deposit
type AmountError struct {
	Total   float64
	Deposit float64
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("total amount %.2f must be at least the deposit %.2f", e.Total, e.Deposit)
}

// NotificationError is a soft failure of the WhatsApp gateway. It never blocks
// the booking transition that triggered the send.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed: %v", e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// StoreError wraps a transport or availability failure of the document store
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
