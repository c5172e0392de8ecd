package specification

import "gorm.io/gorm"

// ByAction filters audit logs by action code.
type ByAction struct {
	Action string
}

func (s ByAction) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("action = ?", s.Action)
}

// ByEntity filters audit logs by the referenced entity.
type ByEntity struct {
	EntityType string
	EntityID   string
}

func (s ByEntity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("entity_type = ? AND entity_id = ?", s.EntityType, s.EntityID)
}
