package repository

import (
	"context"
)

// NotificationRepository defines the interface for the WhatsApp gateway.
// Send is fire-and-forget from the caller's point of view: any failure is
// reported but must not affect the booking that triggered it.
type NotificationRepository interface {
	Send(ctx context.Context, phone, text, apiKey string) error
}
