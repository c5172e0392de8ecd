package entity

import "time"

type EventStatus string

const (
	EventStatusPending EventStatus = "pending"
	EventStatusDone    EventStatus = "done"
	EventStatusFailed  EventStatus = "failed"
)

// ClaimResult is the outcome of an atomic ledger claim attempt.
type ClaimResult int

const (
	// ClaimFresh: this worker inserted the entry and owns processing.
	ClaimFresh ClaimResult = iota
	// ClaimAlreadyDone: the event was already processed to a terminal DONE
	// state, or another worker is actively processing it. Ack and do nothing.
	ClaimAlreadyDone
	// ClaimReclaimed: a prior attempt failed or went stale; this worker has
	// taken over the entry and owns processing.
	ClaimReclaimed
)

type EventLedgerEntry struct {
	Id          string // processor event id
	EventType   string
	Status      EventStatus
	ReceivedAt  time.Time
	ProcessedAt *time.Time
}
