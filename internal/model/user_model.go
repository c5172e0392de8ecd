package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash  *string   `gorm:"type:varchar(255)"`
	FullName      string    `gorm:"type:varchar(255);not null"`
	Role          string    `gorm:"type:varchar(50);not null;default:'member'"`
	IsActive      bool      `gorm:"default:true"`
	AccountStatus string    `gorm:"type:varchar(50);not null;default:'active'"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
