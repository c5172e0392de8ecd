package contract

import (
	"context"

	"member-portal-be/internal/entity"
	"member-portal-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MemberUpdate is an explicit partial update. Nil fields are untouched, so
// "absent" and "explicitly cleared" can never be confused. Provisioning only
// ever touches tier, status and the payment flag; profile fields set at
// creation are not overwritten here.
type MemberUpdate struct {
	MembershipTier             *entity.MembershipTier
	MembershipStatus           *entity.MembershipStatus
	MembershipPaymentConfirmed *bool
}

type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	ApplyUpdate(ctx context.Context, memberId uuid.UUID, update MemberUpdate) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Member, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
