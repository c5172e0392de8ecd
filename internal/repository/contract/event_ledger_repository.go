package contract

import (
	"context"
	"time"

	"member-portal-be/internal/entity"
)

// EventLedgerRepository is the idempotency store. Claim is the only
// cross-instance synchronization point in the system; it relies on the
// ledger's primary key, never on application-level locking.
type EventLedgerRepository interface {
	// Claim atomically inserts a PENDING entry for eventId. When the entry
	// already exists, the outcome depends on its state: DONE or an actively
	// pending entry yields ClaimAlreadyDone; FAILED or a pending entry older
	// than staleAfter is taken over and yields ClaimReclaimed.
	Claim(ctx context.Context, eventId, eventType string, staleAfter time.Duration) (entity.ClaimResult, error)

	// MarkDone advances the entry to DONE. DONE is terminal; a DONE entry is
	// never moved back.
	MarkDone(ctx context.Context, eventId string) error

	// MarkFailed advances the entry to FAILED unless it is already DONE.
	MarkFailed(ctx context.Context, eventId string) error

	FindOne(ctx context.Context, eventId string) (*entity.EventLedgerEntry, error)
}
