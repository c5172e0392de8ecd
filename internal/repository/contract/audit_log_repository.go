package contract

import (
	"context"

	"member-portal-be/internal/entity"
	"member-portal-be/internal/repository/specification"
)

// AuditLogRepository is append-only. There is deliberately no update or
// delete operation.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditLogEntry) error
	AppendAll(ctx context.Context, entries []*entity.AuditLogEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLogEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
