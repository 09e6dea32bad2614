package templates

import (
	"fmt"
)

// ConfirmationMessage builds the WhatsApp text sent to the customer when an
// administrator confirms their booking.
func ConfirmationMessage(bookingID, date string) string {
	return fmt.Sprintf("🎉 تم تأكيد حجزك لدى شالية 5 نجوم\nرقم الحجز: %s\nتاريخ الحجز: %s\nشكراً لاختيارك لنا!", bookingID, date)
}
