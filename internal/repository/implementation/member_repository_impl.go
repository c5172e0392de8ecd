package implementation

import (
	"context"
	"errors"

	"member-portal-be/internal/entity"
	"member-portal-be/internal/mapper"
	"member-portal-be/internal/model"
	"member-portal-be/internal/repository/contract"
	"member-portal-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemberMapper
}

func NewMemberRepository(db *gorm.DB) contract.MemberRepository {
	return &MemberRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemberMapper(),
	}
}

func (r *MemberRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemberRepositoryImpl) Create(ctx context.Context, member *entity.Member) error {
	modelMember := r.mapper.ToModel(member)
	if err := r.db.WithContext(ctx).Create(modelMember).Error; err != nil {
		return err
	}
	*member = *r.mapper.ToEntity(modelMember)
	return nil
}

// ApplyUpdate writes only the fields set on the update struct. Using an
// explicit column map keeps untouched profile fields out of the statement
// entirely.
func (r *MemberRepositoryImpl) ApplyUpdate(ctx context.Context, memberId uuid.UUID, update contract.MemberUpdate) error {
	columns := map[string]interface{}{}
	if update.MembershipTier != nil {
		columns["membership_tier"] = string(*update.MembershipTier)
	}
	if update.MembershipStatus != nil {
		columns["membership_status"] = string(*update.MembershipStatus)
	}
	if update.MembershipPaymentConfirmed != nil {
		columns["membership_payment_confirmed"] = *update.MembershipPaymentConfirmed
	}
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Member{}).
		Where("id = ?", memberId).
		Updates(columns).Error
}

func (r *MemberRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Member, error) {
	var modelMember model.Member
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelMember).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelMember), nil
}

func (r *MemberRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error) {
	var modelMembers []*model.Member
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelMembers).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelMembers), nil
}

func (r *MemberRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Member{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
