package bootstrap

import (
	"member-portal-be/internal/config"
	"member-portal-be/internal/controller"
	"member-portal-be/internal/pkg/logger"
	"member-portal-be/internal/pkg/mailer"
	"member-portal-be/internal/pkg/serverutils"
	"member-portal-be/internal/repository/unitofwork"
	"member-portal-be/internal/service"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController

	// Route guards
	JwtGuard fiber.Handler

	// Background Services (Exposed for main.go to run)
	NotificationDispatcher service.INotificationDispatcher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	notifLogger := logger.NewIsolatedLogger(cfg.Notify.LogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Notify.ProvisioningTopic, pubSub)
	settingsService := service.NewSettingsService(uowFactory, sysLogger)

	dispatcher := service.NewNotificationDispatcher(
		pubSub,
		cfg.Notify.ProvisioningTopic,
		emailService,
		settingsService,
		notifLogger,
		cfg.Notify.SendTimeout,
		cfg.Notify.AdminEmail,
	)

	verifier := service.NewSignatureVerifier(cfg.Webhook.SigningSecret, cfg.Webhook.ReplayWindow)
	decoder := service.NewMetadataDecoder(sysLogger)
	provisioningService := service.NewProvisioningService(uowFactory, sysLogger)

	webhookService := service.NewWebhookService(
		uowFactory,
		verifier,
		decoder,
		provisioningService,
		publisherService,
		sysLogger,
		cfg.Webhook.StaleLockThreshold,
	)

	// 4. Controllers
	return &Container{
		WebhookController:      controller.NewWebhookController(webhookService),
		JwtGuard:               serverutils.NewJwtMiddleware(cfg.App.JwtSecret),
		NotificationDispatcher: dispatcher,
	}
}
