package domain

import "time"

// Therapist a provider who can be booked
type Therapist struct {
	ID          string
	DisplayName string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
