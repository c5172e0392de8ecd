package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type AccountStatus string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"

	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusDeleted   AccountStatus = "deleted"
)

// SystemActorId identifies automated provisioning in audit trails when no
// human actor initiated the change.
var SystemActorId = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type User struct {
	Id            uuid.UUID
	Email         string
	PasswordHash  *string
	FullName      string
	Role          UserRole
	IsActive      bool
	AccountStatus AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
