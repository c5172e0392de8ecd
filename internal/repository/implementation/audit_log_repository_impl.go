package implementation

import (
	"context"

	"member-portal-be/internal/entity"
	"member-portal-be/internal/mapper"
	"member-portal-be/internal/model"
	"member-portal-be/internal/repository/contract"
	"member-portal-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuditMapper
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &AuditLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuditMapper(),
	}
}

func (r *AuditLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AuditLogRepositoryImpl) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(r.mapper.ToModel(entry)).Error
}

func (r *AuditLogRepositoryImpl) AppendAll(ctx context.Context, entries []*entity.AuditLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]*model.AuditLog, len(entries))
	for i, e := range entries {
		models[i] = r.mapper.ToModel(e)
	}
	return r.db.WithContext(ctx).Create(models).Error
}

func (r *AuditLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLogEntry, error) {
	var models []*model.AuditLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *AuditLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AuditLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
