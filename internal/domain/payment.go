package domain

import "time"

// PaymentStatus status of a payment receipt
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
)

// PayoutStatus status of the therapist payout for a payment
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusScheduled PayoutStatus = "scheduled"
	PayoutStatusPaid      PayoutStatus = "paid"
)

// Payment financial receipt linked to a session
type Payment struct {
	ID                string
	SessionID         string
	OrderID           string
	ExternalPaymentID string
	Amount            float64
	Currency          string
	Method            string
	Status            PaymentStatus
	PayoutStatus      PayoutStatus

	// Discount data, empty when no coupon was applied
	CouponCode     *string
	DiscountAmount float64
	OriginalAmount *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
