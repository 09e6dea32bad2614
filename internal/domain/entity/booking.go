package entity

import (
	"time"
)

// Booking status
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Cancel policy controls what happens to a booking when it is cancelled:
// immediate-delete removes the document right away, mark-then-sweep flips
// the status and leaves removal to the expiry sweep.
const (
	CancelPolicyImmediateDelete = "immediate-delete"
	CancelPolicyMarkThenSweep   = "mark-then-sweep"
)

// Booking represents a single chalet reservation for one calendar day
type Booking struct {
	BookingID       string    `bson:"_id" json:"bookingId"`
	Date            string    `bson:"date" json:"date"` // YYYY-MM-DD
	CustomerName    string    `bson:"customerName" json:"customerName"`
	CustomerPhone   string    `bson:"customerPhone" json:"customerPhone"`
	NationalID      string    `bson:"nationalId" json:"nationalId"`
	DepositAmount   float64   `bson:"depositAmount" json:"depositAmount"`
	TotalAmount     *float64  `bson:"totalAmount,omitempty" json:"totalAmount,omitempty"`
	NotificationKey string    `bson:"notificationKey,omitempty" json:"-"`
	Status          string    `bson:"status" json:"status"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// IsActive reports whether the booking still occupies its date
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// ActiveStatuses is the status set that blocks a date from being rebooked
func ActiveStatuses() []string {
	return []string{StatusPending, StatusConfirmed}
}

// CalendarEntry is the public projection of a booking: the occupied date and
// its status, with no customer identity attached
type CalendarEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// BookingStats summarizes the active collection for the admin dashboard
type BookingStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
}
