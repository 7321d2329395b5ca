// Package validation holds pure format helpers shared by the API and the
// client SDK: input checks that never reach the network, plus the display
// formatting used on receipts and statements.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gas-delivery-api/models"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Kenyan mobile numbers: +2547XXXXXXXX, +2541XXXXXXXX, 07XXXXXXXX, 01XXXXXXXX
	phoneRegex = regexp.MustCompile(`^(\+254|0)[17]\d{8}$`)
)

// IsValidEmail reports whether email looks like a deliverable address.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhone reports whether phone is a Kenyan mobile number.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// FormatCurrency renders an amount in KES without decimal places,
// e.g. 2800 -> "KES 2,800".
func FormatCurrency(amount float64) string {
	n := int64(amount + 0.5)
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "KES -" + b.String()
	}
	return "KES " + b.String()
}

// FormatDate renders a timestamp like "Jan 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatDateTime renders a timestamp like "Jan 2, 2006 at 15:04".
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 at 15:04")
}

// statusLabels maps wire statuses to display text.
var statusLabels = map[models.OrderStatus]string{
	models.StatusPending:   "Pending",
	models.StatusAccepted:  "Accepted",
	models.StatusPickedUp:  "Picked Up",
	models.StatusOnTheWay:  "On the Way",
	models.StatusDelivered: "Delivered",
	models.StatusCancelled: "Cancelled",
}

// FormatStatus returns the display label for a status, falling back to the
// raw value for anything unknown.
func FormatStatus(status models.OrderStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}
