package domain

import "time"

// EventSessionProvisioned routing key of the event published after a session is recorded
const EventSessionProvisioned = "session.provisioned"

// Provisioning entry points
const (
	SourceGateway = "gateway"
	SourceDirect  = "direct"
)

// SessionProvisionedEvent notifies downstream consumers about a new session
type SessionProvisionedEvent struct {
	SessionID           string      `json:"sessionId"`
	OrderID             string      `json:"orderId,omitempty"`
	TherapistID         string      `json:"therapistId"`
	ClientID            string      `json:"clientId"`
	SessionType         SessionType `json:"sessionType"`
	ScheduledTime       time.Time   `json:"scheduledTime"`
	RoomURL             string      `json:"roomUrl,omitempty"`
	Source              string      `json:"source"`
	AvailabilityOutcome string      `json:"availabilityOutcome"`
	OccurredAt          time.Time   `json:"occurredAt"`
}
