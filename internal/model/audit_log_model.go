package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditLog struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorUserId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Action      string         `gorm:"type:varchar(50);not null;index"`
	EntityType  string         `gorm:"type:varchar(50);not null"`
	EntityId    string         `gorm:"type:varchar(255);not null;index"`
	OldValues   datatypes.JSON `gorm:"type:jsonb"`
	NewValues   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"default:now();not null;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
