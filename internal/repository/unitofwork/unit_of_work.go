package unitofwork

import (
	"context"

	"member-portal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	MemberRepository() contract.MemberRepository
	EventLedgerRepository() contract.EventLedgerRepository
	AuditLogRepository() contract.AuditLogRepository
	SettingRepository() contract.SettingRepository
}
