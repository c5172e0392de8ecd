package model

import "time"

// WebhookEvent is the idempotency ledger. One row per processor event id,
// enforced by the primary key.
type WebhookEvent struct {
	Id          string    `gorm:"type:varchar(255);primaryKey"`
	EventType   string    `gorm:"type:varchar(100);not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReceivedAt  time.Time `gorm:"not null"`
	ProcessedAt *time.Time
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
