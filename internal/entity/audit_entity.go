package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditUserCreated                AuditAction = "USER_CREATED"
	AuditMembershipPaymentCompleted AuditAction = "MEMBERSHIP_PAYMENT_COMPLETED"
	AuditMembershipUpgraded         AuditAction = "MEMBERSHIP_UPGRADED"
	AuditEventRejected              AuditAction = "EVENT_REJECTED"
)

// AuditLogEntry is append-only. ActorUserId is a weak reference: the user
// may be deleted later, lookups must tolerate a dangling id.
type AuditLogEntry struct {
	Id          uuid.UUID
	ActorUserId uuid.UUID
	Action      AuditAction
	EntityType  string
	EntityId    string
	OldValues   map[string]interface{}
	NewValues   map[string]interface{}
	CreatedAt   time.Time
}
