package contract

import (
	"context"

	"member-portal-be/internal/entity"
)

// SettingRepository reads admin-managed settings. This service never writes
// them.
type SettingRepository interface {
	FindByKey(ctx context.Context, key string) (*entity.Setting, error)
}
