package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// RoomTTLHours default lifetime of a call room after the scheduled start
const RoomTTLHours = 4

// DefaultSessionDurationMinutes used when a pending booking carries no duration
const DefaultSessionDurationMinutes = 60
