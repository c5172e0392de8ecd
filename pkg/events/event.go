package events

import "time"

// ProvisioningCompleted is published after the provisioning transaction
// commits. The notification dispatcher consumes it asynchronously.
type ProvisioningCompleted struct {
	EventId       string    `json:"event_id"`
	CorrelationId string    `json:"correlation_id"`
	UserEmail     string    `json:"user_email"`
	UserName      string    `json:"user_name"`
	Tier          string    `json:"tier"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	NewUser       bool      `json:"new_user"`
	OccurredAt    time.Time `json:"occurred_at"`
}
