package domain

import "time"

// SessionType the communication channel of a therapy session
type SessionType string

const (
	SessionTypeVideo SessionType = "video"
	SessionTypeAudio SessionType = "audio"
	SessionTypeChat  SessionType = "chat"
)

// IsValid returns true for known session types
func (t SessionType) IsValid() bool {
	switch t {
	case SessionTypeVideo, SessionTypeAudio, SessionTypeChat:
		return true
	default:
		return false
	}
}

// RequiresRoom returns true if the session needs a real-time call room
func (t SessionType) RequiresRoom() bool {
	return t == SessionTypeVideo || t == SessionTypeAudio
}

// SessionStatus lifecycle status of a session
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
	SessionStatusMissed    SessionStatus = "missed"
)

// Session a scheduled therapy session between a therapist and a client
type Session struct {
	ID              string
	TherapistID     string
	ClientID        string
	SessionType     SessionType
	Status          SessionStatus
	ScheduledTime   time.Time
	DurationMinutes int

	// Call room, empty for chat sessions or when provisioning failed
	RoomURL  string
	RoomName string

	// Payment linkage
	OrderID           string
	ExternalPaymentID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRoom returns true if a call room is attached to the session
func (s *Session) HasRoom() bool {
	return s.RoomURL != "" && s.RoomName != ""
}
