package main

import (
	"log"
	"os"

	"member-portal-be/internal/entity"
	"member-portal-be/internal/model"
	"member-portal-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

// Seeds the rows the service expects to exist: the system actor that owns
// machine-generated audit entries, and the admin notification toggle.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	systemActor := model.User{
		Id:            entity.SystemActorId,
		Email:         "system@member-portal.internal",
		FullName:      "System",
		Role:          string(entity.UserRoleAdmin),
		IsActive:      false,
		AccountStatus: string(entity.AccountStatusActive),
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&systemActor).Error; err != nil {
		log.Fatalf("Error: Failed to seed system actor: %v", err)
	}

	toggle := model.Setting{
		Key:   entity.SettingNotifyAdminOnMembership,
		Value: "true",
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&toggle).Error; err != nil {
		log.Fatalf("Error: Failed to seed settings: %v", err)
	}

	log.Println("✅ Success: Seed completed.")
}
