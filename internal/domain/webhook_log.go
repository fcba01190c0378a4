package domain

import (
	"encoding/json"
	"time"
)

// WebhookOutcome result of processing a gateway notification
type WebhookOutcome string

const (
	WebhookOutcomeSuccess WebhookOutcome = "success"
	WebhookOutcomeOther   WebhookOutcome = "other"
)

// WebhookLog idempotency record, one per order id
type WebhookLog struct {
	OrderID     string
	PaymentID   string
	StatusCode  string
	Outcome     WebhookOutcome
	Payload     json.RawMessage
	ProcessedAt time.Time
}
