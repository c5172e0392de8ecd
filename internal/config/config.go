package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Webhook  WebhookConfig
	Notify   NotifyConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type WebhookConfig struct {
	// SigningSecret is shared with the payment processor; HMAC-SHA256 key.
	SigningSecret string
	// ReplayWindow bounds |now - signature timestamp|.
	ReplayWindow time.Duration
	// StaleLockThreshold bounds how long a PENDING ledger entry is trusted
	// before a redelivery may reclaim it.
	StaleLockThreshold time.Duration
}

type NotifyConfig struct {
	// SendTimeout is the hard cap on a single email delivery attempt.
	SendTimeout time.Duration
	AdminEmail  string
	// Topic for the in-process provisioning event bus.
	ProvisioningTopic string
	LogFilePath       string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Member Portal"),
		},
		Webhook: WebhookConfig{
			SigningSecret:      getEnv("WEBHOOK_SIGNING_SECRET", ""),
			ReplayWindow:       getEnvAsDuration("WEBHOOK_REPLAY_WINDOW", 5*time.Minute),
			StaleLockThreshold: getEnvAsDuration("WEBHOOK_STALE_LOCK_THRESHOLD", 2*time.Minute),
		},
		Notify: NotifyConfig{
			SendTimeout:       getEnvAsDuration("NOTIFY_SEND_TIMEOUT", 10*time.Second),
			AdminEmail:        getEnv("NOTIFY_ADMIN_EMAIL", ""),
			ProvisioningTopic: getEnv("NOTIFY_PROVISIONING_TOPIC", "PROVISIONING_COMPLETED"),
			LogFilePath:       getEnv("NOTIFY_LOG_FILE_PATH", "logs/notification.log"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
