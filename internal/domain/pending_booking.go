package domain

import "time"

// PendingBookingStatus lifecycle status of a staged booking
type PendingBookingStatus string

const (
	PendingBookingStatusPending   PendingBookingStatus = "pending"
	PendingBookingStatusCompleted PendingBookingStatus = "completed"
)

// PendingBooking a booking request staged before payment, keyed by order id.
// Transitions from pending to completed at most once.
type PendingBooking struct {
	OrderID         string
	TherapistID     string
	ClientID        string
	SessionType     SessionType
	ScheduledTime   time.Time
	DurationMinutes int
	CouponCode      *string
	DiscountAmount  float64
	Status          PendingBookingStatus
	SessionID       *string
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsCompleted returns true if the booking was already provisioned
func (b *PendingBooking) IsCompleted() bool {
	return b.Status == PendingBookingStatusCompleted
}
