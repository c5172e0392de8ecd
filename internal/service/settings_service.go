package service

import (
	"context"
	"time"

	"member-portal-be/internal/entity"
	"member-portal-be/internal/pkg/logger"
	"member-portal-be/internal/repository/unitofwork"

	gocache "github.com/patrickmn/go-cache"
)

// ISettingsService reads admin-managed toggles. Values are cached briefly so
// every webhook doesn't hit the settings table.
type ISettingsService interface {
	NotifyAdminOnMembership(ctx context.Context) bool
}

type settingsService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
	logger     logger.ILogger
}

func NewSettingsService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ISettingsService {
	return &settingsService{
		uowFactory: uowFactory,
		cache:      gocache.New(time.Minute, 5*time.Minute),
		logger:     log,
	}
}

func (s *settingsService) NotifyAdminOnMembership(ctx context.Context) bool {
	if cached, found := s.cache.Get(entity.SettingNotifyAdminOnMembership); found {
		return cached.(bool)
	}

	enabled := false
	uow := s.uowFactory.NewUnitOfWork(ctx)
	setting, err := uow.SettingRepository().FindByKey(ctx, entity.SettingNotifyAdminOnMembership)
	if err != nil {
		// Fail closed: no admin noise when the settings table is unreachable.
		s.logger.Warn("SettingsProvider", "could not read setting, defaulting to off", map[string]interface{}{
			"key":   entity.SettingNotifyAdminOnMembership,
			"error": err.Error(),
		})
		return false
	}
	if setting != nil {
		enabled = setting.Value == "true" || setting.Value == "1"
	}

	s.cache.Set(entity.SettingNotifyAdminOnMembership, enabled, gocache.DefaultExpiration)
	return enabled
}
