package implementation

import (
	"context"
	"errors"

	"member-portal-be/internal/entity"
	"member-portal-be/internal/model"
	"member-portal-be/internal/repository/contract"

	"gorm.io/gorm"
)

type SettingRepositoryImpl struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) contract.SettingRepository {
	return &SettingRepositoryImpl{db: db}
}

func (r *SettingRepositoryImpl) FindByKey(ctx context.Context, key string) (*entity.Setting, error) {
	var m model.Setting
	if err := r.db.WithContext(ctx).First(&m, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.Setting{
		Key:       m.Key,
		Value:     m.Value,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
