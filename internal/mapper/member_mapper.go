package mapper

import (
	"member-portal-be/internal/entity"
	"member-portal-be/internal/model"
)

type MemberMapper struct{}

func NewMemberMapper() *MemberMapper {
	return &MemberMapper{}
}

func (m *MemberMapper) ToEntity(mm *model.Member) *entity.Member {
	if mm == nil {
		return nil
	}
	return &entity.Member{
		Id:                         mm.Id,
		UserId:                     mm.UserId,
		BusinessName:               mm.BusinessName,
		ContactFirstName:           mm.ContactFirstName,
		ContactLastName:            mm.ContactLastName,
		MembershipTier:             entity.MembershipTier(mm.MembershipTier),
		MembershipStatus:           entity.MembershipStatus(mm.MembershipStatus),
		MembershipPaymentConfirmed: mm.MembershipPaymentConfirmed,
		JoinedAt:                   mm.JoinedAt,
		CreatedAt:                  mm.CreatedAt,
		UpdatedAt:                  mm.UpdatedAt,
	}
}

func (m *MemberMapper) ToModel(e *entity.Member) *model.Member {
	if e == nil {
		return nil
	}
	return &model.Member{
		Id:                         e.Id,
		UserId:                     e.UserId,
		BusinessName:               e.BusinessName,
		ContactFirstName:           e.ContactFirstName,
		ContactLastName:            e.ContactLastName,
		MembershipTier:             string(e.MembershipTier),
		MembershipStatus:           string(e.MembershipStatus),
		MembershipPaymentConfirmed: e.MembershipPaymentConfirmed,
		JoinedAt:                   e.JoinedAt,
		CreatedAt:                  e.CreatedAt,
		UpdatedAt:                  e.UpdatedAt,
	}
}

func (m *MemberMapper) ToEntities(members []*model.Member) []*entity.Member {
	entities := make([]*entity.Member, len(members))
	for i, mm := range members {
		entities[i] = m.ToEntity(mm)
	}
	return entities
}
