package mapper

import (
	"encoding/json"

	"member-portal-be/internal/entity"
	"member-portal-be/internal/model"

	"gorm.io/datatypes"
)

type AuditMapper struct{}

func NewAuditMapper() *AuditMapper {
	return &AuditMapper{}
}

func (m *AuditMapper) ToModel(e *entity.AuditLogEntry) *model.AuditLog {
	if e == nil {
		return nil
	}
	return &model.AuditLog{
		Id:          e.Id,
		ActorUserId: e.ActorUserId,
		Action:      string(e.Action),
		EntityType:  e.EntityType,
		EntityId:    e.EntityId,
		OldValues:   toJSON(e.OldValues),
		NewValues:   toJSON(e.NewValues),
		CreatedAt:   e.CreatedAt,
	}
}

func (m *AuditMapper) ToEntity(a *model.AuditLog) *entity.AuditLogEntry {
	if a == nil {
		return nil
	}
	return &entity.AuditLogEntry{
		Id:          a.Id,
		ActorUserId: a.ActorUserId,
		Action:      entity.AuditAction(a.Action),
		EntityType:  a.EntityType,
		EntityId:    a.EntityId,
		OldValues:   fromJSON(a.OldValues),
		NewValues:   fromJSON(a.NewValues),
		CreatedAt:   a.CreatedAt,
	}
}

func (m *AuditMapper) ToEntities(logs []*model.AuditLog) []*entity.AuditLogEntry {
	entities := make([]*entity.AuditLogEntry, len(logs))
	for i, a := range logs {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func toJSON(values map[string]interface{}) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func fromJSON(raw datatypes.JSON) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var values map[string]interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}
